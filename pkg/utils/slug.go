package utils

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile("[^a-z0-9]+")

// Slugify lowercases s and joins its alphanumeric runs with hyphens. Names with nothing
// usable come back as fallback.
func Slugify(s, fallback string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return fallback
	}
	return s
}
