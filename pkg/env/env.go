package env

import "os"

// Get reads key from the process environment, falling back to the supplied
// default when the variable is unset or blank. Blank counts as unset so an
// empty override in a .env file cannot erase a configured port.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
