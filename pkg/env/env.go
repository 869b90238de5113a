// Package env reads raw environment variables for the few knobs that must
// resolve before config loads, such as the log output format.
package env

import "os"

// Get returns the environment variable's value, or fallback when the
// variable is unset or empty.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
