package document

import (
	"strings"
	"testing"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name     string
		issue    Issue
		expected string
	}{
		{
			name: "with_fragment_and_line",
			issue: Issue{
				Severity: SeverityError,
				Category: "references",
				Message:  "unresolved reference: intro",
				Fragment: "02_facts.md",
				Line:     7,
			},
			expected: "[error] 02_facts.md:7 [references] unresolved reference: intro",
		},
		{
			name: "fragment_only",
			issue: Issue{
				Severity: SeverityWarning,
				Category: "file_naming",
				Message:  "fragments should use numbered prefixes: 01_, 02_, etc.",
				Fragment: "intro.md",
			},
			expected: "[warning] intro.md [file_naming] fragments should use numbered prefixes: 01_, 02_, etc.",
		},
		{
			name: "no_location",
			issue: Issue{
				Severity: SeverityError,
				Category: "structure",
				Message:  "missing required section: PARTIES",
			},
			expected: "[error] structure: missing required section: PARTIES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.issue.String(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestIssueListFilters(t *testing.T) {
	list := IssueList{
		{Severity: SeverityError, Message: "first"},
		{Severity: SeverityWarning, Message: "second"},
		{Severity: SeverityError, Message: "third"},
	}

	if got := len(list.Errors()); got != 2 {
		t.Errorf("Expected 2 errors, got %d", got)
	}
	if got := len(list.Warnings()); got != 1 {
		t.Errorf("Expected 1 warning, got %d", got)
	}
	if list.Valid() {
		t.Error("Expected list with errors to be invalid")
	}

	warningsOnly := IssueList{{Severity: SeverityWarning, Message: "advisory"}}
	if !warningsOnly.Valid() {
		t.Error("Expected warnings-only list to be valid")
	}
}

func TestReferenceRender(t *testing.T) {
	tests := []struct {
		name     string
		ref      Reference
		expected string
	}{
		{
			name:     "resolved_single",
			ref:      Reference{StartLabel: "intro", State: ResolutionResolved, Start: 5},
			expected: "5",
		},
		{
			name:     "resolved_range",
			ref:      Reference{StartLabel: "first", EndLabel: "last", State: ResolutionResolved, Start: 3, End: 9},
			expected: "3 through 9",
		},
		{
			name:     "collapsed_range",
			ref:      Reference{StartLabel: "only", EndLabel: "same", State: ResolutionResolved, Start: 5},
			expected: "5",
		},
		{
			name:     "unresolved_single",
			ref:      Reference{StartLabel: "missing", State: ResolutionUnresolved},
			expected: "[REF ERROR: missing]",
		},
		{
			name:     "unresolved_range",
			ref:      Reference{StartLabel: "alpha", EndLabel: "omega", State: ResolutionUnresolved},
			expected: "[REF ERROR: alpha:omega]",
		},
		{
			name:     "pending_single",
			ref:      Reference{StartLabel: "later", State: ResolutionPending},
			expected: "{{REF:later}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.Render(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestParagraphPlainText(t *testing.T) {
	paragraph := &Paragraph{
		OriginalMarker: "1",
		Content: []Span{
			{Kind: SpanText, Text: "Violation of "},
			{Kind: SpanStrong, Text: "15 U.S.C. § 1681n"},
			{Kind: SpanText, Text: ", see paragraph "},
			{Kind: SpanReference, Ref: &Reference{StartLabel: "intro", State: ResolutionResolved, Start: 2}},
			{Kind: SpanText, Text: "."},
		},
	}

	expected := "Violation of 15 U.S.C. § 1681n, see paragraph 2."
	if got := paragraph.PlainText(); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
	if !paragraph.Numbered() {
		t.Error("Expected paragraph with marker to report Numbered")
	}

	prose := &Paragraph{Content: []Span{{Kind: SpanText, Text: "unnumbered prose"}}}
	if prose.Numbered() {
		t.Error("Expected paragraph without marker to report unnumbered")
	}
}

func TestDocumentEachParagraphOrder(t *testing.T) {
	doc := &Document{
		Sections: []*Section{
			{
				Level:      1,
				Fragment:   "01_first.md",
				Paragraphs: []*Paragraph{{OriginalMarker: "1"}},
				Subsections: []*Section{
					{
						Level:      2,
						Fragment:   "01_first.md",
						Paragraphs: []*Paragraph{{OriginalMarker: "2"}},
					},
				},
			},
			{
				Level:      1,
				Fragment:   "02_second.md",
				Paragraphs: []*Paragraph{{OriginalMarker: "3"}},
			},
		},
	}

	var markers []string
	doc.EachParagraph(func(section *Section, paragraph *Paragraph) {
		markers = append(markers, paragraph.OriginalMarker)
	})

	if got := strings.Join(markers, ","); got != "1,2,3" {
		t.Errorf("Expected visit order 1,2,3, got %s", got)
	}
}

func TestLabelNamePattern(t *testing.T) {
	valid := []string{"intro", "jurisdiction_venue", "claim2", "a"}
	for _, name := range valid {
		if !LabelNamePattern.MatchString(name) {
			t.Errorf("Expected %q to be a legal label name", name)
		}
	}

	invalid := []string{"Intro", "2claim", "has-dash", "has space", ""}
	for _, name := range invalid {
		if LabelNamePattern.MatchString(name) {
			t.Errorf("Expected %q to be rejected", name)
		}
	}
}
