package main

import "strings"

// isAPIPath reports whether a path belongs to the JSON API rather than the frontend
func isAPIPath(p string) bool {
	for _, prefix := range []string{"/api", "/predict", "/model-info", "/metrics"} {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
