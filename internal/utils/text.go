package utils

import (
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var plainTextPolicy = bluemonday.StrictPolicy()

// PlainText strips all markup from rich text and collapses whitespace, for
// summary display of product descriptions.
func PlainText(rich string) string {
	if strings.TrimSpace(rich) == "" {
		return ""
	}
	stripped := html.UnescapeString(plainTextPolicy.Sanitize(rich))
	return strings.Join(strings.Fields(stripped), " ")
}

// CartBadge renders the cart counter shown next to the cart icon.
func CartBadge(total int) string {
	switch {
	case total <= 0:
		return ""
	case total > 99:
		return "99+"
	default:
		return strconv.Itoa(total)
	}
}
