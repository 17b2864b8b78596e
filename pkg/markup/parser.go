// Package markup parses the lightweight fragment markup into the
// document model. The work is split in two: a line tokenizer with a
// fixed matcher priority, and a structural state machine that folds the
// token stream into sections, paragraphs, and list blocks. Reference
// tokens are left as typed placeholders; resolution happens after
// global numbering.
package markup

import (
	"fmt"
	"strings"

	"github.com/coolbeans/draftsman/pkg/document"
	"github.com/coolbeans/draftsman/pkg/fragment"
)

// Parser converts one fragment's raw text into a section tree. The
// parser holds no cross-call state; all per-run counters live in the
// assembler so concurrent runs never share anything.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// pendingParagraph accumulates a logical paragraph that may wrap across
// multiple physical lines.
type pendingParagraph struct {
	marker string
	line   int
	text   strings.Builder
}

// ParseFragment parses one fragment into its section tree. The
// returned section carries the fragment's top-level body; a leading
// level-1 header becomes its title. Parse anomalies are recovered
// locally and reported as issues, never as errors.
func (parser *Parser) ParseFragment(frag fragment.Fragment) (*document.Section, document.IssueList) {
	root := &document.Section{Level: 1, Fragment: frag.ID}
	stack := []*document.Section{root}
	var issues document.IssueList

	var pending *pendingParagraph
	var listItems [][]document.Span
	listLine := 0
	sawContent := false

	current := func() *document.Section {
		return stack[len(stack)-1]
	}

	flushParagraph := func() {
		if pending == nil {
			return
		}
		labels, cleaned := ExtractLabels(pending.text.String())
		current().Paragraphs = append(current().Paragraphs, &document.Paragraph{
			OriginalMarker: pending.marker,
			Content:        ParseInline(cleaned),
			Labels:         labels,
			Line:           pending.line,
		})
		pending = nil
	}

	flushList := func() {
		if len(listItems) == 0 {
			return
		}
		current().Lists = append(current().Lists, &document.ListBlock{
			Style: document.ListLettered,
			Items: listItems,
			Line:  listLine,
		})
		listItems = nil
	}

	for _, token := range Tokenize(frag.Text) {
		switch token.Kind {
		case TokenHeader:
			flushParagraph()
			flushList()

			if token.RawDepth > MaxHeaderDepth {
				issues = append(issues, document.Issue{
					Severity: document.SeverityError,
					Category: "headers",
					Message:  fmt.Sprintf("header level %d exceeds maximum (H%d), treated as H%d", token.RawDepth, MaxHeaderDepth, MaxHeaderDepth),
					Fragment: frag.ID,
					Line:     token.Line,
				})
			}

			if token.Depth == 1 && root.Title == "" && !sawContent {
				root.Title = token.Text
				sawContent = true
				continue
			}

			// Close deeper or same-level sections; the new section
			// nests under the first shallower one. The fragment body
			// never closes.
			for len(stack) > 1 && current().Level >= token.Depth {
				stack = stack[:len(stack)-1]
			}
			subsection := &document.Section{
				Title:    token.Text,
				Level:    token.Depth,
				Fragment: frag.ID,
			}
			current().Subsections = append(current().Subsections, subsection)
			stack = append(stack, subsection)
			sawContent = true

		case TokenParagraphMarker:
			flushParagraph()
			flushList()
			pending = &pendingParagraph{marker: token.Marker, line: token.Line}
			pending.text.WriteString(token.Text)
			sawContent = true

		case TokenListItem:
			flushParagraph()
			if len(listItems) == 0 {
				listLine = token.Line
			}
			labels, cleaned := ExtractLabels(token.Text)
			if len(labels) > 0 {
				issues = append(issues, document.Issue{
					Severity: document.SeverityWarning,
					Category: "cross_references",
					Message:  "label definitions inside list items are ignored; bind labels to numbered paragraphs",
					Fragment: frag.ID,
					Line:     token.Line,
				})
			}
			listItems = append(listItems, ParseInline(cleaned))
			sawContent = true

		case TokenBlank:
			flushParagraph()
			flushList()

		case TokenText:
			flushList()
			if pending == nil {
				pending = &pendingParagraph{line: token.Line}
				pending.text.WriteString(token.Text)
			} else {
				pending.text.WriteString(" ")
				pending.text.WriteString(token.Text)
			}
			sawContent = true
		}
	}

	flushParagraph()
	flushList()
	return root, issues
}
