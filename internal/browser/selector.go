// internal/browser/selector.go
package browser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Selector is a parsed element query: a CSS selector optionally narrowed by
// the element's text. Text is a case-insensitive substring match; Pattern is
// a regular expression.
type Selector struct {
	CSS     string
	Text    string
	Pattern string
}

var textPseudo = regexp.MustCompile(`^(.*?):(has-text|text-matches)\(("(?:[^"\\]|\\.)*")\)$`)

// ParseSelector splits the supported dialect into its parts:
//
//	button.primary
//	button:has-text("Continue")
//	:text-matches("Welcome back")
//
// A missing CSS part matches any element.
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, fmt.Errorf("empty selector")
	}

	m := textPseudo.FindStringSubmatch(s)
	if m == nil {
		return Selector{CSS: s}, nil
	}

	arg, err := strconv.Unquote(m[3])
	if err != nil {
		return Selector{}, fmt.Errorf("selector %q: bad text argument: %w", s, err)
	}
	sel := Selector{CSS: strings.TrimSpace(m[1])}
	if sel.CSS == "" {
		sel.CSS = "*"
	}

	switch m[2] {
	case "has-text":
		sel.Text = arg
	case "text-matches":
		if _, err := regexp.Compile(arg); err != nil {
			return Selector{}, fmt.Errorf("selector %q: bad pattern: %w", s, err)
		}
		sel.Pattern = arg
	}
	return sel, nil
}

// HasTextFilter reports whether the selector needs a text match beyond CSS.
func (s Selector) HasTextFilter() bool { return s.Text != "" || s.Pattern != "" }

func (s Selector) String() string {
	switch {
	case s.Text != "":
		return fmt.Sprintf("%s:has-text(%q)", s.CSS, s.Text)
	case s.Pattern != "":
		return fmt.Sprintf("%s:text-matches(%q)", s.CSS, s.Pattern)
	default:
		return s.CSS
	}
}
