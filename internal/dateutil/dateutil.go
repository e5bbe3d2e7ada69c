// Package dateutil resolves report dates. A date is either literal text or
// "auto" / "auto:FORMAT", stamped from a clock at render time.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxFormatLength limits format string length.
const MaxFormatLength = 50

// DefaultFormat is used for a bare "auto": the submission month.
const DefaultFormat = "MMMM YYYY"

// SessionStart is the first month of an academic session. A session is
// written as "2024-25".
const SessionStart = time.July

// Presets are named formats, matched case-insensitively after "auto:".
var Presets = map[string]string{
	"iso":     "YYYY-MM-DD",
	"long":    "MMMM D, YYYY",
	"month":   "MMMM YYYY",
	"session": "SESSION",
}

// tokens are tried longest first so MMMM wins over MM and M.
var tokens = []struct {
	token  string
	render func(time.Time) string
}{
	{"SESSION", Session},
	{"YYYY", func(t time.Time) string { return t.Format("2006") }},
	{"MMMM", func(t time.Time) string { return t.Format("January") }},
	{"MMM", func(t time.Time) string { return t.Format("Jan") }},
	{"YY", func(t time.Time) string { return t.Format("06") }},
	{"MM", func(t time.Time) string { return t.Format("01") }},
	{"DD", func(t time.Time) string { return t.Format("02") }},
	{"M", func(t time.Time) string { return strconv.Itoa(int(t.Month())) }},
	{"D", func(t time.Time) string { return strconv.Itoa(t.Day()) }},
}

// Session returns the academic session containing t, e.g. "2024-25" for
// any date from July 2024 to June 2025.
func Session(t time.Time) string {
	start := t.Year()
	if t.Month() < SessionStart {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// Format renders t with a token format.
// Tokens: SESSION, YYYY, YY, MMMM, MMM, MM, M, DD, D.
// Text in brackets is literal: "[Submitted] MMMM YYYY". Other characters
// outside brackets are kept as they are.
func Format(format string, t time.Time) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxFormatLength)
	}

	var b strings.Builder
	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			b.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, tok := range tokens {
			if strings.HasPrefix(format[i:], tok.token) {
				b.WriteString(tok.render(t))
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}
	return b.String(), nil
}

// Resolve handles a date value:
//   - "auto" is t in DefaultFormat
//   - "auto:FORMAT" is t in FORMAT or a named preset
//   - anything else is returned unchanged
func Resolve(value string, t time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}
	if lower == "auto" {
		return Format(DefaultFormat, t)
	}
	if !strings.HasPrefix(lower, "auto:") {
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	format := value[len("auto:"):]
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}
	return Format(format, t)
}
