// Package render converts an assembled document into presentation
// formats. Renderers consume only the result surface — the resolved
// section tree and the issue list — and never re-parse raw text or
// re-resolve references.
package render

import (
	"fmt"
	"strings"

	"github.com/coolbeans/draftsman/pkg/document"
)

// Markdown renders the document back to canonical markdown with global
// paragraph numbers in place of the authored markers.
func Markdown(doc *document.Document) string {
	var builder strings.Builder
	for sectionIndex, section := range doc.Sections {
		if sectionIndex > 0 {
			builder.WriteString("\n")
		}
		writeMarkdownSection(&builder, section)
	}
	return builder.String()
}

func writeMarkdownSection(builder *strings.Builder, section *document.Section) {
	if section.Title != "" {
		builder.WriteString(strings.Repeat("#", section.Level))
		builder.WriteString(" ")
		builder.WriteString(section.Title)
		builder.WriteString("\n\n")
	}

	for _, paragraph := range section.Paragraphs {
		if paragraph.Numbered() {
			builder.WriteString(fmt.Sprintf("**%d.** ", paragraph.Number))
		}
		builder.WriteString(markdownSpans(paragraph.Content))
		builder.WriteString("\n\n")
	}

	for _, block := range section.Lists {
		for itemIndex, item := range block.Items {
			builder.WriteString(listMarker(block.Style, itemIndex))
			builder.WriteString(markdownSpans(item))
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	for _, subsection := range section.Subsections {
		writeMarkdownSection(builder, subsection)
	}
}

// listMarker returns the item marker for the declared list style.
func listMarker(style document.ListStyle, index int) string {
	if style == document.ListNumbered {
		return fmt.Sprintf("%d. ", index+1)
	}
	return fmt.Sprintf("%c. ", 'a'+index)
}

func markdownSpans(spans []document.Span) string {
	var builder strings.Builder
	for _, span := range spans {
		switch span.Kind {
		case document.SpanStrong:
			builder.WriteString("**")
			builder.WriteString(span.Text)
			builder.WriteString("**")
		case document.SpanItalic:
			builder.WriteString("*")
			builder.WriteString(span.Text)
			builder.WriteString("*")
		default:
			builder.WriteString(span.PlainText())
		}
	}
	return builder.String()
}
