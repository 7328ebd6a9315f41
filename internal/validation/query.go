// Package validation checks and normalizes user input before it leaves the client.
package validation

import (
	"fmt"
	"strings"
)

const (
	MinArticles = 5
	MaxArticles = 50
)

// ValidTimeRanges lists the time_range values the service understands.
var ValidTimeRanges = []string{"1h", "6h", "12h", "24h", "48h", "7d", "30d"}

// NormalizeQuery collapses whitespace runs to single spaces, the same
// cleanup the service applies. Length and emptiness are left for the
// service to judge.
func NormalizeQuery(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// ClampArticles bounds n to the range the service accepts.
func ClampArticles(n int) int {
	if n < MinArticles {
		return MinArticles
	}
	if n > MaxArticles {
		return MaxArticles
	}
	return n
}

// TimeRange checks r against ValidTimeRanges. The empty string is valid and
// means "use the service default".
func TimeRange(r string) error {
	if r == "" {
		return nil
	}
	for _, v := range ValidTimeRanges {
		if r == v {
			return nil
		}
	}
	return fmt.Errorf("time range must be one of: %s", strings.Join(ValidTimeRanges, ", "))
}
