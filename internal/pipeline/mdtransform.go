package pipeline

import (
	"regexp"
	"strings"
)

// ==text== is turned into private use placeholders before goldmark runs and
// into <mark> afterwards, so raw HTML can stay disabled.
const (
	markStart = "\uE000"
	markEnd   = "\uE001"
)

var (
	crlfOrCR         = regexp.MustCompile(`\r\n?`)
	highlightPattern = regexp.MustCompile(`==([^=\n]+)==`)
)

func preprocess(src string) string {
	src = crlfOrCR.ReplaceAllString(src, "\n")
	return highlightPattern.ReplaceAllString(src, markStart+"$1"+markEnd)
}

func convertMarkPlaceholders(s string) string {
	return strings.NewReplacer(markStart, "<mark>", markEnd, "</mark>").Replace(s)
}
