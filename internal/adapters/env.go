package adapters

import (
	"os"
	"strings"
)

// defaultGetEnv is the production environment variable getter.
func defaultGetEnv(key string) string {
	return os.Getenv(key)
}

// lookupToken reads an optional credential; a blank variable name means
// no credential.
func lookupToken(getEnv func(string) string, envName string) string {
	if strings.TrimSpace(envName) == "" {
		return ""
	}
	return strings.TrimSpace(getEnv(envName))
}
