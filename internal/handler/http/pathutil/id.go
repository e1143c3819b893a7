// Package pathutil parses and normalizes API URL paths.
package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive int64 path value such as r.PathValue("id").
//
// Example:
//
//	id, err := ParseID(r.PathValue("id"))
//	// "/sources/12/harvest" with pattern "/sources/{id}/harvest" gives 12, nil
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
