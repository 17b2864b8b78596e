package markup

import (
	"regexp"
	"strings"
)

// TokenKind classifies one physical line of fragment text.
type TokenKind string

const (
	// TokenHeader is a line opening with 1-3 leading # markers.
	TokenHeader TokenKind = "header"

	// TokenParagraphMarker is a line opening with a bold numbered
	// marker: **1.** or the legacy **P1** / **P1.** form.
	TokenParagraphMarker TokenKind = "paragraph_marker"

	// TokenListItem is a line opening with a lower-case lettered list
	// marker: "a. ", "b. ", and so on.
	TokenListItem TokenKind = "list_item"

	// TokenBlank is an empty or whitespace-only line.
	TokenBlank TokenKind = "blank"

	// TokenText is any other non-blank line.
	TokenText TokenKind = "text"
)

// MaxHeaderDepth is the deepest header level the document model
// carries. Deeper headers are clamped and reported.
const MaxHeaderDepth = 3

// LineToken is the typed result of matching one line. Line is 1-based.
type LineToken struct {
	Kind TokenKind
	Line int

	// Depth is the clamped header depth (1..MaxHeaderDepth); RawDepth
	// preserves the authored depth for reporting.
	Depth    int
	RawDepth int

	// Marker holds the literal marker digits of a numbered paragraph,
	// including the legacy P prefix when present ("7" or "P7").
	Marker string

	// Letter is the list item letter.
	Letter string

	// Text is the line content after the matched marker, or the whole
	// trimmed line for text tokens.
	Text string
}

var (
	headerPattern = regexp.MustCompile(`^(#+)\s*(.*)$`)

	// Standard bold marker: **1.** text
	paragraphMarkerPattern = regexp.MustCompile(`^\*\*(\d+)\.\*\*\s*(.*)$`)

	// Legacy P-format marker: **P1** or **P1.** text
	legacyMarkerPattern = regexp.MustCompile(`^\*\*P(\d+)\.?\*\*\s*(.*)$`)

	listItemPattern = regexp.MustCompile(`^\s*([a-z])\.\s+(.*)$`)
)

// TokenizeLine matches a single line against the fixed matcher
// priority: header, paragraph marker, list item, blank, text.
func TokenizeLine(line string, lineNumber int) LineToken {
	trimmed := strings.TrimSpace(line)

	if match := headerPattern.FindStringSubmatch(trimmed); match != nil {
		rawDepth := len(match[1])
		depth := rawDepth
		if depth > MaxHeaderDepth {
			depth = MaxHeaderDepth
		}
		return LineToken{
			Kind:     TokenHeader,
			Line:     lineNumber,
			Depth:    depth,
			RawDepth: rawDepth,
			Text:     strings.TrimSpace(match[2]),
		}
	}

	if match := paragraphMarkerPattern.FindStringSubmatch(trimmed); match != nil {
		return LineToken{
			Kind:   TokenParagraphMarker,
			Line:   lineNumber,
			Marker: match[1],
			Text:   match[2],
		}
	}
	if match := legacyMarkerPattern.FindStringSubmatch(trimmed); match != nil {
		return LineToken{
			Kind:   TokenParagraphMarker,
			Line:   lineNumber,
			Marker: "P" + match[1],
			Text:   match[2],
		}
	}

	if match := listItemPattern.FindStringSubmatch(line); match != nil {
		return LineToken{
			Kind:   TokenListItem,
			Line:   lineNumber,
			Letter: match[1],
			Text:   match[2],
		}
	}

	if trimmed == "" {
		return LineToken{Kind: TokenBlank, Line: lineNumber}
	}

	return LineToken{Kind: TokenText, Line: lineNumber, Text: trimmed}
}

// Tokenize splits fragment text into lines and produces one typed token
// per line.
func Tokenize(text string) []LineToken {
	lines := strings.Split(text, "\n")
	tokens := make([]LineToken, 0, len(lines))
	for index, line := range lines {
		tokens = append(tokens, TokenizeLine(line, index+1))
	}
	return tokens
}
