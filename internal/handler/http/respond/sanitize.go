package respond

import (
	"regexp"
)

var (
	// user:password@ in URL-style DSNs
	dsnPasswordPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)

	// password=secret in key/value DSNs
	kvPasswordPattern = regexp.MustCompile(`(?i)(password=)([^\s&]+)`)
)

// SanitizeError returns the error message with database credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = dsnPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = kvPasswordPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
