// Package extract provides the field-level extraction primitive every
// scraper is built on: locate zero or more nodes with a CSS selector and
// return the first match's text or attribute, or an explicit missing
// value. Absence is data, not an error; only malformed secondary parses
// (numbers, timestamps) fail loudly.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// NA is the display rendering of a missing value at table boundaries.
const NA = "NA"

// Value is an optional string. The zero Value is missing, which keeps a
// missing field distinct from a field that is present but empty.
type Value struct {
	str     string
	present bool
}

// Some wraps a present string.
func Some(s string) Value {
	return Value{str: s, present: true}
}

// Missing returns the missing sentinel.
func Missing() Value {
	return Value{}
}

// Present reports whether the value was extracted at all.
func (v Value) Present() bool {
	return v.present
}

// Str returns the raw string, empty when missing.
func (v Value) Str() string {
	return v.str
}

// Display renders the value for tabular output, substituting NA when
// missing so every row keeps the same column count.
func (v Value) Display() string {
	if !v.present {
		return NA
	}
	return v.str
}

// IntValue is an optional integer produced by the numeric normalizer.
type IntValue struct {
	n       int
	present bool
}

// SomeInt wraps a present integer.
func SomeInt(n int) IntValue {
	return IntValue{n: n, present: true}
}

// Present reports whether a number was parsed.
func (v IntValue) Present() bool {
	return v.present
}

// Int returns the parsed number, zero when missing.
func (v IntValue) Int() int {
	return v.n
}

// Display renders the number or NA.
func (v IntValue) Display() string {
	if !v.present {
		return NA
	}
	return strconv.Itoa(v.n)
}

// TimeValue is an optional instant produced by the timestamp normalizer.
type TimeValue struct {
	t       time.Time
	present bool
}

// SomeTime wraps a present instant.
func SomeTime(t time.Time) TimeValue {
	return TimeValue{t: t, present: true}
}

// Present reports whether a timestamp was parsed.
func (v TimeValue) Present() bool {
	return v.present
}

// Time returns the parsed instant, zero when missing.
func (v TimeValue) Time() time.Time {
	return v.t
}

// Display renders the instant in RFC3339 or NA.
func (v TimeValue) Display() string {
	if !v.present {
		return NA
	}
	return v.t.Format(time.RFC3339)
}

// Text returns the trimmed text of the first node matching selector, or
// the missing sentinel when nothing matches.
func Text(sel *goquery.Selection, selector string) Value {
	match := sel.Find(selector).First()
	if match.Length() == 0 {
		return Missing()
	}
	return Some(strings.TrimSpace(match.Text()))
}

// Attr returns the named attribute of the first node matching selector,
// or the missing sentinel when no node matches or the node lacks the
// attribute.
func Attr(sel *goquery.Selection, selector, name string) Value {
	match := sel.Find(selector).First()
	if match.Length() == 0 {
		return Missing()
	}
	raw, ok := match.Attr(name)
	if !ok {
		return Missing()
	}
	return Some(strings.TrimSpace(raw))
}

// Texts returns the trimmed text of every node matching selector, in
// document order. An empty slice means zero matches.
func Texts(sel *goquery.Selection, selector string) []string {
	var out []string
	sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

// Attrs returns the named attribute of every node matching selector,
// skipping nodes without the attribute.
func Attrs(sel *goquery.Selection, selector, name string) []string {
	var out []string
	sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if raw, ok := s.Attr(name); ok {
			out = append(out, strings.TrimSpace(raw))
		}
	})
	return out
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// Number strips every non-digit character, so "1,234 views" parses as
// 1234. Missing input or input with no digits stays missing; this is
// absence, not a parse failure.
func Number(v Value) IntValue {
	if !v.present {
		return IntValue{}
	}
	digits := nonDigits.ReplaceAllString(v.str, "")
	if digits == "" {
		return IntValue{}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		// Only possible on overflow-length digit runs.
		return IntValue{}
	}
	return SomeInt(n)
}

// timestampLayouts are tried in order. The forum renders absolute times
// as "2006-01-02 15:04:05Z" in title attributes.
var timestampLayouts = []string{
	"2006-01-02 15:04:05Z",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp parses an ISO-like instant. Missing input stays missing, but
// a present string that matches no layout is a ParseMismatch: the page
// shape changed and the error propagates.
func Timestamp(v Value) (TimeValue, error) {
	if !v.present {
		return TimeValue{}, nil
	}
	raw := strings.TrimSpace(v.str)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return SomeTime(t.UTC()), nil
		}
	}
	return TimeValue{}, fmt.Errorf("timestamp %q matches no known layout", raw)
}

// Tags splits a raw class-attribute token string into ordered tag names.
// The forum marks a post's tag box with a "tags" token followed by one
// "t-<name>" token per tag, so "tags t-go t-http" yields ["go", "http"].
// Tokens without the prefix are structural and dropped.
func Tags(v Value, prefix string) []string {
	if !v.present {
		return nil
	}
	var out []string
	for _, token := range strings.Fields(v.str) {
		if !strings.HasPrefix(token, prefix) {
			continue
		}
		if name := strings.TrimPrefix(token, prefix); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// JoinTags renders an ordered tag list as its display string. SplitTags
// inverts it, so rendering then parsing is idempotent.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// SplitTags parses a rendered tag display string back into the ordered
// tag list.
func SplitTags(display string) []string {
	if strings.TrimSpace(display) == "" {
		return nil
	}
	parts := strings.Split(display, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FirstLine collapses multi-line author display blocks down to the name:
// everything after the first non-empty line is secondary text and
// dropped.
func FirstLine(v Value) Value {
	if !v.present {
		return v
	}
	for _, line := range strings.Split(v.str, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return Some(line)
		}
	}
	return Some("")
}
