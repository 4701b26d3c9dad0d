package utils

import (
	"math/rand"
	"os"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// RandomAlphabetString returns a random lower-case string of the given length.
func RandomAlphabetString(length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(buf)
}

// ContainsString returns true iff the provided string slice hay contains string
// needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// IsProdEnv returns true when running against the production environment.
func IsProdEnv() bool {
	return os.Getenv("TRUST_ASSEMBLY_ENV") == "prod"
}
