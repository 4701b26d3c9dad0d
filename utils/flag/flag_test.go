package flag

import (
	goflag "flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The shared flags must only be registered at load time, never parsed; a
// parse in init aborts any test binary because the testing flags are not
// registered yet. This test running at all depends on that.
func TestSharedFlagsRegisteredWithDefaults(t *testing.T) {
	for name, wantDefault := range map[string]string{
		"dev":     "true",
		"service": APIServer,
		"no_auth": "false",
	} {
		f := goflag.Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, wantDefault, f.DefValue, name)
	}

	assert.True(t, IsDevelopment)
	assert.Equal(t, APIServer, ServiceName)
	assert.False(t, ByPassAuth)
}
