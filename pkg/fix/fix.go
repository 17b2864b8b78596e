// Package fix is the optional correction post-process. The assembly
// engine only detects style violations; this package rewrites fragment
// text to repair the common mechanical ones: legacy P-format markers,
// unbold paragraph numbers, unformatted statute and case-name
// citations, over-deep headers, and lowercase header first letters.
// Fixes reuse the same line patterns the parser and validator match.
package fix

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/coolbeans/draftsman/pkg/markup"
)

var (
	legacyMarkerPattern = regexp.MustCompile(`\*\*P(\d+)\.?\*\*`)

	unboldNumberLinePattern  = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)
	singleAsteriskNumPattern = regexp.MustCompile(`\*(\d+)\*`)

	statuteFixPattern  = regexp.MustCompile(`\b\d+\s+U\.S\.C\.\s+§\s+\d+[a-z]*(?:\([^)]+\))?`)
	caseNameFixPattern = regexp.MustCompile(`\b[A-Z][a-z]+\s+v\.\s+[A-Z][a-z]+`)

	headerFixPattern = regexp.MustCompile(`^(#+)\s*(.*)$`)
)

// Fix records one applied correction.
type Fix struct {
	Type    string `json:"type"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ConvertLegacyMarkers rewrites legacy P-format paragraph markers
// (**P7**, **P7.**) to the standard bold form (**7.**). The conversion
// is idempotent: converted text contains no legacy markers, so a second
// pass changes nothing.
func ConvertLegacyMarkers(text string) (string, int) {
	count := len(legacyMarkerPattern.FindAllString(text, -1))
	converted := legacyMarkerPattern.ReplaceAllString(text, "**$1.**")
	return converted, count
}

// FixText applies every automatic correction to one fragment's text and
// returns the fixed text with a record of each fix.
func FixText(text string) (string, []Fix) {
	var fixes []Fix

	converted, legacyCount := ConvertLegacyMarkers(text)
	if legacyCount > 0 {
		fixes = append(fixes, Fix{
			Type:    "legacy_markers",
			Message: fmt.Sprintf("converted %d P-format markers", legacyCount),
		})
	}

	lines := strings.Split(converted, "\n")
	for index, line := range lines {
		lineNumber := index + 1

		if match := unboldNumberLinePattern.FindStringSubmatch(line); match != nil {
			lines[index] = fmt.Sprintf("**%s.** %s", match[1], match[2])
			fixes = append(fixes, Fix{
				Type:    "paragraph_numbering",
				Line:    lineNumber,
				Message: fmt.Sprintf("bolded paragraph number %s", match[1]),
			})
			line = lines[index]
		}

		if !strings.Contains(line, "**") && singleAsteriskNumPattern.MatchString(line) {
			lines[index] = singleAsteriskNumPattern.ReplaceAllString(line, "**$1.**")
			fixes = append(fixes, Fix{
				Type:    "paragraph_numbering",
				Line:    lineNumber,
				Message: "replaced single-asterisk number with bold form",
			})
			line = lines[index]
		}

		if fixed, changed := fixHeaderLine(line); changed {
			lines[index] = fixed
			fixes = append(fixes, Fix{
				Type:    "headers",
				Line:    lineNumber,
				Message: "normalized header depth or case",
			})
			line = lines[index]
		}

		if fixed, changed := fixCitations(line); changed {
			lines[index] = fixed
			fixes = append(fixes, Fix{
				Type:    "legal_citations",
				Line:    lineNumber,
				Message: "formatted statute or case-name citation",
			})
		}
	}

	return strings.Join(lines, "\n"), fixes
}

// fixHeaderLine clamps headers deeper than the maximum to the maximum
// depth and uppercases a lowercase first letter.
func fixHeaderLine(line string) (string, bool) {
	match := headerFixPattern.FindStringSubmatch(strings.TrimSpace(line))
	if match == nil {
		return line, false
	}
	depth := len(match[1])
	text := match[2]
	changed := false

	if depth > markup.MaxHeaderDepth {
		depth = markup.MaxHeaderDepth
		changed = true
	}
	if runes := []rune(text); len(runes) > 0 && unicode.IsLower(runes[0]) {
		runes[0] = unicode.ToUpper(runes[0])
		text = string(runes)
		changed = true
	}
	if !changed {
		return line, false
	}
	return strings.Repeat("#", depth) + " " + text, true
}

// fixCitations bolds unformatted statutes and italicizes unformatted
// case names, leaving already-formatted occurrences alone.
func fixCitations(line string) (string, bool) {
	changed := false

	line = statuteFixPattern.ReplaceAllStringFunc(line, func(citation string) string {
		if strings.Contains(line, "**"+citation) {
			return citation
		}
		changed = true
		return "**" + citation + "**"
	})

	line = caseNameFixPattern.ReplaceAllStringFunc(line, func(caseName string) string {
		if strings.Contains(line, "*"+caseName) {
			return caseName
		}
		changed = true
		return "*" + caseName + "*"
	})

	return line, changed
}
