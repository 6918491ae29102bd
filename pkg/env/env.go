// Package env reads process environment variables that sit outside the
// MEMBERHUB_ config surface, such as LOG_FORMAT for the logger.
package env

import "os"

// Get returns the named variable, falling back when it is unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
