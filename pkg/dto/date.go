package dto

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate parses an optional YYYY-MM-DD value. Nil and empty stay nil.
func ParseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", *s)
	}
	return &t, nil
}
