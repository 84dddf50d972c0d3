/*
* Utility functions for formatting output.
 */
package format

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Print string with max length, truncating with ellipsis.
func Abbrev(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	if max < 1 {
		return ""
	}

	return string(runes[:max-1]) + "…"
}

func GitEmail(email string) string {
	return fmt.Sprintf("<%s>", email)
}

// Number with thousands separators.
func Number(n int) string {
	return humanize.Comma(int64(n))
}

// "1 line", "2 lines", "1,024 lines".
func Count(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%s %s", Number(n), noun)
	}

	return fmt.Sprintf("%s %ss", Number(n), noun)
}

// Share of whole that part makes up, from 0 to 100. Zero if whole is zero.
func Share(part int, whole int) float64 {
	if whole == 0 {
		return 0
	}

	return float64(part) / float64(whole) * 100
}

func Percent(share float64) string {
	return fmt.Sprintf("%.2f%%", share)
}
