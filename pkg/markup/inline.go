package markup

import (
	"regexp"
	"strings"

	"github.com/coolbeans/draftsman/pkg/document"
)

var (
	labelTokenPattern = regexp.MustCompile(`\{\{LABEL:([^}]+)\}\}`)

	// inlinePattern matches, in one pass, every inline construct that
	// breaks a plain text run: range references, single references,
	// strong spans, italic spans. Ordering matters: REF_RANGE before
	// REF, ** before *.
	inlinePattern = regexp.MustCompile(`\{\{REF_RANGE:([^:}]+):([^}]+)\}\}|\{\{REF:([^}]+)\}\}|\*\*([^*]+)\*\*|\*([^*]+)\*`)
)

// ExtractLabels returns the label names defined in text and the text
// with the label tokens removed. Label definitions are invisible in
// rendered output; they only bind the enclosing paragraph.
func ExtractLabels(text string) ([]string, string) {
	var labels []string
	for _, match := range labelTokenPattern.FindAllStringSubmatch(text, -1) {
		labels = append(labels, match[1])
	}
	cleaned := labelTokenPattern.ReplaceAllString(text, "")
	return labels, strings.TrimSpace(cleaned)
}

// ParseInline splits an accumulated paragraph or list-item string into
// typed spans. Emphasis spans are resolved here; reference tokens
// become pending placeholders for the resolution pass, since label
// definitions may occur later in document order than their references.
func ParseInline(text string) []document.Span {
	var spans []document.Span
	appendText := func(value string) {
		if value == "" {
			return
		}
		spans = append(spans, document.Span{Kind: document.SpanText, Text: value})
	}

	cursor := 0
	for _, match := range inlinePattern.FindAllStringSubmatchIndex(text, -1) {
		appendText(text[cursor:match[0]])
		cursor = match[1]

		switch {
		case match[2] >= 0: // {{REF_RANGE:start:end}}
			spans = append(spans, document.Span{
				Kind: document.SpanReference,
				Ref: &document.Reference{
					StartLabel: text[match[2]:match[3]],
					EndLabel:   text[match[4]:match[5]],
					State:      document.ResolutionPending,
				},
			})
		case match[6] >= 0: // {{REF:name}}
			spans = append(spans, document.Span{
				Kind: document.SpanReference,
				Ref: &document.Reference{
					StartLabel: text[match[6]:match[7]],
					State:      document.ResolutionPending,
				},
			})
		case match[8] >= 0: // **strong**
			spans = append(spans, document.Span{Kind: document.SpanStrong, Text: text[match[8]:match[9]]})
		case match[10] >= 0: // *italic*
			spans = append(spans, document.Span{Kind: document.SpanItalic, Text: text[match[10]:match[11]]})
		}
	}
	appendText(text[cursor:])
	return spans
}
