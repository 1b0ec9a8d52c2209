package util

import (
	"os"
	"strings"
)

// GetEnvironmentVariables returns every variable whose name starts with prefix. An empty
// prefix returns the whole environment.
func GetEnvironmentVariables(prefix string) map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], prefix) {
			continue
		}

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// EnvironmentFlag reports whether the variable is set to YES, case insensitive.
func EnvironmentFlag(env map[string]string, name string) bool {
	return strings.EqualFold(env[name], "YES")
}
