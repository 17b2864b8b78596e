// Package document defines the assembled document model: sections,
// globally numbered paragraphs, list blocks, label bindings, and the
// issue list produced by assembly and validation. The model is the
// result surface handed to renderer collaborators; renderers never
// need to re-parse raw text or re-resolve references.
package document

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// LabelNamePattern is the legal form for label and reference names.
var LabelNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Severity classifies an Issue as blocking or advisory.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single structural, lexical, or resolution finding. Line is
// 1-based; a zero Line means the issue is scoped to the whole fragment.
type Issue struct {
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
	Message  string   `json:"message"`
	Fragment string   `json:"fragment,omitempty"`
	Line     int      `json:"line,omitempty"`
}

// String returns a compact single-line rendering of the issue.
func (issue Issue) String() string {
	location := issue.Fragment
	if issue.Line > 0 {
		location = fmt.Sprintf("%s:%d", issue.Fragment, issue.Line)
	}
	if location == "" {
		return fmt.Sprintf("[%s] %s: %s", issue.Severity, issue.Category, issue.Message)
	}
	return fmt.Sprintf("[%s] %s [%s] %s", issue.Severity, location, issue.Category, issue.Message)
}

// IssueList accumulates issues across all assembly phases.
type IssueList []Issue

// Errors returns only the error-severity issues.
func (list IssueList) Errors() IssueList {
	var errors IssueList
	for _, issue := range list {
		if issue.Severity == SeverityError {
			errors = append(errors, issue)
		}
	}
	return errors
}

// Warnings returns only the warning-severity issues.
func (list IssueList) Warnings() IssueList {
	var warnings IssueList
	for _, issue := range list {
		if issue.Severity == SeverityWarning {
			warnings = append(warnings, issue)
		}
	}
	return warnings
}

// Valid reports whether the list contains no error-severity issues.
// Warnings do not fail a validation run.
func (list IssueList) Valid() bool {
	return len(list.Errors()) == 0
}

// LabelTable maps label names to assigned global paragraph numbers.
// Labels are write-once per assembly run: the first binding wins.
type LabelTable map[string]int

// SpanKind distinguishes the inline content variants of a paragraph or
// list item.
type SpanKind string

const (
	SpanText      SpanKind = "text"
	SpanStrong    SpanKind = "strong"
	SpanItalic    SpanKind = "italic"
	SpanReference SpanKind = "reference"
)

// ResolutionState is the outcome of resolving a reference span.
type ResolutionState string

const (
	// ResolutionPending marks a reference placeholder that has not been
	// through the resolution pass yet. No pending reference survives in
	// a finished Document.
	ResolutionPending ResolutionState = "pending"

	// ResolutionResolved means every endpoint mapped to an assigned
	// paragraph number.
	ResolutionResolved ResolutionState = "resolved"

	// ResolutionUnresolved means at least one endpoint label had no
	// binding; the span renders as a visible error marker.
	ResolutionUnresolved ResolutionState = "unresolved"
)

// Reference is a typed cross-reference placeholder. EndLabel is empty
// for single references. After resolution the Outcome carries either
// the literal numbers or the unresolved marker state; the bracketed
// error string exists only in rendered text, never as internal state.
type Reference struct {
	StartLabel string          `json:"start_label"`
	EndLabel   string          `json:"end_label,omitempty"`
	State      ResolutionState `json:"state"`
	Start      int             `json:"start,omitempty"`
	End        int             `json:"end,omitempty"`
}

// IsRange reports whether the reference was authored as a range.
func (ref *Reference) IsRange() bool {
	return ref.EndLabel != ""
}

// Render returns the literal substitution text for a resolved
// reference, or the visible error marker for an unresolved one. A
// range whose endpoints resolved to the same number collapses to that
// single number.
func (ref *Reference) Render() string {
	switch ref.State {
	case ResolutionResolved:
		if ref.End != 0 && ref.End != ref.Start {
			return fmt.Sprintf("%d through %d", ref.Start, ref.End)
		}
		return fmt.Sprintf("%d", ref.Start)
	case ResolutionUnresolved:
		if ref.IsRange() {
			return fmt.Sprintf("[REF ERROR: %s:%s]", ref.StartLabel, ref.EndLabel)
		}
		return fmt.Sprintf("[REF ERROR: %s]", ref.StartLabel)
	default:
		if ref.IsRange() {
			return fmt.Sprintf("{{REF_RANGE:%s:%s}}", ref.StartLabel, ref.EndLabel)
		}
		return fmt.Sprintf("{{REF:%s}}", ref.StartLabel)
	}
}

// Span is one inline run of paragraph or list-item content. Text spans
// carry Text; reference spans carry Ref.
type Span struct {
	Kind SpanKind   `json:"kind"`
	Text string     `json:"text,omitempty"`
	Ref  *Reference `json:"ref,omitempty"`
}

// PlainText flattens a span to its visible text without emphasis
// markers. Reference spans render their resolved value or error marker.
func (span Span) PlainText() string {
	if span.Kind == SpanReference && span.Ref != nil {
		return span.Ref.Render()
	}
	return span.Text
}

// Paragraph is one logical paragraph. Number is the globally assigned
// sequence number; zero marks prose that never carried an explicit
// numbered marker and is ineligible as a reference target.
// OriginalMarker preserves the authored marker digits (for example "7"
// or "P7") for traceability only.
type Paragraph struct {
	Number         int      `json:"number"`
	OriginalMarker string   `json:"original_marker,omitempty"`
	Content        []Span   `json:"content"`
	Labels         []string `json:"labels,omitempty"`
	Line           int      `json:"line,omitempty"`
}

// Numbered reports whether the paragraph originated from an explicit
// numbered marker.
func (paragraph *Paragraph) Numbered() bool {
	return paragraph.OriginalMarker != ""
}

// PlainText joins the paragraph's spans into visible text.
func (paragraph *Paragraph) PlainText() string {
	var builder strings.Builder
	for _, span := range paragraph.Content {
		builder.WriteString(span.PlainText())
	}
	return builder.String()
}

// ListStyle declares how list items are marked.
type ListStyle string

const (
	ListLettered ListStyle = "lettered"
	ListNumbered ListStyle = "numbered"
)

// ListBlock is an ordered run of list items. Items are not paragraph
// numbered.
type ListBlock struct {
	Style ListStyle `json:"style"`
	Items [][]Span  `json:"items"`
	Line  int       `json:"line,omitempty"`
}

// ItemText returns the visible text of one list item.
func (block *ListBlock) ItemText(index int) string {
	var builder strings.Builder
	for _, span := range block.Items[index] {
		builder.WriteString(span.PlainText())
	}
	return builder.String()
}

// Section is one structural unit: a fragment body or a nested
// subsection. A Section with an empty Title is the top-level body of a
// fragment. Level runs 1 through 3.
type Section struct {
	Title       string       `json:"title,omitempty"`
	Level       int          `json:"level"`
	Paragraphs  []*Paragraph `json:"paragraphs,omitempty"`
	Subsections []*Section   `json:"subsections,omitempty"`
	Lists       []*ListBlock `json:"lists,omitempty"`
	Fragment    string       `json:"fragment,omitempty"`
}

// Walk visits the section and every nested subsection in document
// order, calling visit for each.
func (section *Section) Walk(visit func(*Section)) {
	visit(section)
	for _, subsection := range section.Subsections {
		subsection.Walk(visit)
	}
}

// Document is the fully assembled, resolved result of one run. It owns
// its sections, the label table, and the accumulated issue list.
type Document struct {
	Type            string     `json:"type,omitempty"`
	Sections        []*Section `json:"sections"`
	Labels          LabelTable `json:"labels"`
	Issues          IssueList  `json:"issues"`
	TotalParagraphs int        `json:"total_paragraphs"`
}

// EachParagraph visits every paragraph in document order: a fragment's
// own paragraphs first, then its subsections depth-first, then the next
// fragment.
func (doc *Document) EachParagraph(visit func(*Section, *Paragraph)) {
	for _, section := range doc.Sections {
		section.Walk(func(current *Section) {
			for _, paragraph := range current.Paragraphs {
				visit(current, paragraph)
			}
		})
	}
}

// EachList visits every list block in document order.
func (doc *Document) EachList(visit func(*Section, *ListBlock)) {
	for _, section := range doc.Sections {
		section.Walk(func(current *Section) {
			for _, block := range current.Lists {
				visit(current, block)
			}
		})
	}
}

// ToJSON serializes the document for renderer collaborators.
func (doc *Document) ToJSON() ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
