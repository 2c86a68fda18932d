package util

import (
	"strings"
)

// ExtractSnippet returns up to maxLines lines of context around the
// [start,end] line region.
func ExtractSnippet(content string, start, end, maxLines int) string {
	if maxLines <= 0 {
		maxLines = 8
	}
	lines := strings.Split(content, "\n")
	if start < 1 {
		start = 1
	}
	if end < start {
		end = start
	}
	s := max(0, start-1-maxLines/2)
	e := min(len(lines)-1, end-1+maxLines/2)
	return strings.Join(lines[s:e+1], "\n")
}
