package render

import (
	"strings"
	"testing"

	"github.com/coolbeans/draftsman/pkg/document"
	"github.com/coolbeans/draftsman/pkg/metadata"
)

func sampleDocument() *document.Document {
	return &document.Document{
		Type: "complaint",
		Sections: []*document.Section{
			{
				Title:    "INTRODUCTION",
				Level:    1,
				Fragment: "01_intro.md",
				Paragraphs: []*document.Paragraph{
					{
						Number:         1,
						OriginalMarker: "1",
						Content: []document.Span{
							{Kind: document.SpanText, Text: "Plaintiff sues under "},
							{Kind: document.SpanStrong, Text: "15 U.S.C. § 1681n"},
							{Kind: document.SpanText, Text: "."},
						},
						Labels: []string{"intro"},
					},
				},
			},
			{
				Title:    "FACTUAL ALLEGATIONS",
				Level:    1,
				Fragment: "02_facts.md",
				Paragraphs: []*document.Paragraph{
					{
						Number:         2,
						OriginalMarker: "2",
						Content: []document.Span{
							{Kind: document.SpanText, Text: "See paragraph "},
							{Kind: document.SpanReference, Ref: &document.Reference{
								StartLabel: "intro",
								State:      document.ResolutionResolved,
								Start:      1,
							}},
							{Kind: document.SpanText, Text: " and "},
							{Kind: document.SpanReference, Ref: &document.Reference{
								StartLabel: "missing",
								State:      document.ResolutionUnresolved,
							}},
							{Kind: document.SpanText, Text: "."},
						},
					},
				},
				Lists: []*document.ListBlock{
					{
						Style: document.ListLettered,
						Items: [][]document.Span{
							{{Kind: document.SpanText, Text: "actual damages;"}},
							{{Kind: document.SpanItalic, Text: "Smith v. Jones"}},
						},
					},
				},
			},
		},
		Labels:          document.LabelTable{"intro": 1},
		TotalParagraphs: 2,
	}
}

func TestMarkdown(t *testing.T) {
	markdown := Markdown(sampleDocument())

	for _, expected := range []string{
		"# INTRODUCTION",
		"**1.** Plaintiff sues under **15 U.S.C. § 1681n**.",
		"# FACTUAL ALLEGATIONS",
		"**2.** See paragraph 1 and [REF ERROR: missing].",
		"a. actual damages;",
		"b. *Smith v. Jones*",
	} {
		if !strings.Contains(markdown, expected) {
			t.Errorf("Expected output to contain %q, got:\n%s", expected, markdown)
		}
	}
}

func TestMarkdownSkipsUnnumberedMarker(t *testing.T) {
	doc := &document.Document{
		Sections: []*document.Section{
			{
				Level: 1,
				Paragraphs: []*document.Paragraph{
					{Content: []document.Span{{Kind: document.SpanText, Text: "Unnumbered preamble."}}},
				},
			},
		},
	}

	markdown := Markdown(doc)
	if strings.Contains(markdown, "**0.**") {
		t.Errorf("Expected no marker for unnumbered paragraph, got:\n%s", markdown)
	}
	if !strings.Contains(markdown, "Unnumbered preamble.") {
		t.Errorf("Expected prose preserved, got:\n%s", markdown)
	}
}

func TestHTML(t *testing.T) {
	meta, err := metadata.Parse([]byte("document_info:\n  name: Smith v. Acme Corp\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	page, err := HTML(sampleDocument(), meta)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	for _, expected := range []string{
		"<title>Smith v. Acme Corp</title>",
		"<h1>INTRODUCTION</h1>",
		"<strong>15 U.S.C. § 1681n</strong>",
		"<em>Smith v. Jones</em>",
		`<span class="ref-error">[REF ERROR: missing]</span>`,
	} {
		if !strings.Contains(page, expected) {
			t.Errorf("Expected page to contain %q", expected)
		}
	}
}

func TestHTMLDefaultTitle(t *testing.T) {
	meta, err := metadata.Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	page, err := HTML(sampleDocument(), meta)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if !strings.Contains(page, "<title>Draft Preview</title>") {
		t.Error("Expected fallback title")
	}
}

func TestIssueReport(t *testing.T) {
	t.Run("failed_with_issues", func(t *testing.T) {
		doc := sampleDocument()
		doc.Issues = document.IssueList{
			{Severity: document.SeverityError, Category: "references", Message: "unresolved reference: missing", Fragment: "02_facts.md", Line: 3},
			{Severity: document.SeverityWarning, Category: "language", Message: `avoid weak modifier: "clearly"`, Fragment: "01_intro.md", Line: 5},
		}

		report := IssueReport(doc)
		for _, expected := range []string{
			"Status: FAILED",
			"Paragraphs: 2",
			"Labels: 1",
			"Total Issues: 2",
			"Errors: 1",
			"Warnings: 1",
			"[error] 02_facts.md:3 [references] unresolved reference: missing",
		} {
			if !strings.Contains(report, expected) {
				t.Errorf("Expected report to contain %q, got:\n%s", expected, report)
			}
		}
	})

	t.Run("passed_when_clean", func(t *testing.T) {
		report := IssueReport(sampleDocument())
		if !strings.Contains(report, "Status: PASSED") {
			t.Errorf("Expected PASSED status, got:\n%s", report)
		}
		if strings.Contains(report, "Issues Found:") {
			t.Errorf("Expected no issue listing, got:\n%s", report)
		}
	})
}
