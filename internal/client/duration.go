package client

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var durationToken = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*([dhms])`)

var unitSeconds = map[string]float64{
	"d": 86400,
	"h": 3600,
	"m": 60,
	"s": 1,
}

// ParseDuration converts a Jira work duration string such as "1h 30m" or "2d"
// into a number of seconds. Units are d, h, m and s, case-insensitive, and
// fractional amounts are allowed per token. A trailing number with no unit is
// dropped without error.
func ParseDuration(text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, &ValidationError{Field: "duration", Reason: "must not be empty"}
	}

	total := 0.0
	for _, m := range durationToken.FindAllStringSubmatch(text, -1) {
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse duration token %q: %w", m[0], err)
		}
		total += amount * unitSeconds[strings.ToLower(m[2])]
	}

	return int(total), nil
}

// FormatSeconds renders seconds as a Jira duration string using days, hours
// and minutes. Sub-minute remainders are dropped, so this is not an exact
// inverse of ParseDuration. Zero, or anything under a minute, renders as "0m".
func FormatSeconds(seconds int) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		return "0m"
	}
	return strings.Join(parts, " ")
}
