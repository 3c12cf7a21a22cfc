package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// normalizeText brings indexed text and query keywords to a common form
// (NFC, case-folded, trimmed) so writes and reads agree on what matches.
func normalizeText(s string) string {
	return foldCaser.String(norm.NFC.String(strings.TrimSpace(s)))
}
