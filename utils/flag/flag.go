/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer      = "api_server"
	PipelineRunner = "pipeline_runner"
)

var (
	IsDevelopment bool
	ServiceName   string
	ByPassAuth    bool
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", APIServer, "'api_server' or 'pipeline_runner'")
	flag.BoolVar(&ByPassAuth, "no_auth", false, "skip identity verification on auth routes, development only")
}

// ParseFlags must be called from main, after every package has registered its
// flags. Parsing in init would break test binaries, whose flags are not
// registered yet when this package loads.
func ParseFlags() {
	flag.Parse()
}
