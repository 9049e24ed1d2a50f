package graph

import (
	"regexp"
	"strings"
)

var semVer = regexp.MustCompile(`^v([1-9]\d*)(\.(0|[1-9]\d*))$`)

// Version returns v with a leading "v", adding one if missing.
// "19.0" and "v19.0" both yield "v19.0"; "" yields "v".
func Version(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// IsVersion reports whether s looks like a Graph API version such as "v19.0".
func IsVersion(s string) bool {
	return semVer.MatchString(s)
}
