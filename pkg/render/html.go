package render

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/coolbeans/draftsman/pkg/document"
	"github.com/coolbeans/draftsman/pkg/metadata"
)

// previewTemplate is the standalone HTML preview page. Styling mirrors
// filed-document conventions: serif face, double spacing, centered
// bold headings.
var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: "Times New Roman", serif; font-size: 14pt; line-height: 2; margin: 1in; }
h1, h2, h3 { text-align: center; font-size: 14pt; }
h1 { text-transform: uppercase; }
p { text-align: justify; }
p.numbered { text-indent: -0.25in; padding-left: 0.25in; }
ol.lettered { list-style-type: lower-alpha; padding-left: 1in; }
.ref-error { color: #b00; font-weight: bold; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HTML renders a standalone preview page for the document. Metadata
// supplies the page title when present.
func HTML(doc *document.Document, meta *metadata.Metadata) (string, error) {
	title := "Draft Preview"
	if meta != nil {
		title = meta.String("document_info.name", title)
	}

	var body strings.Builder
	for _, section := range doc.Sections {
		writeHTMLSection(&body, section)
	}

	var page strings.Builder
	executeErr := previewTemplate.Execute(&page, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(body.String()),
	})
	if executeErr != nil {
		return "", fmt.Errorf("rendering preview: %w", executeErr)
	}
	return page.String(), nil
}

func writeHTMLSection(builder *strings.Builder, section *document.Section) {
	if section.Title != "" {
		fmt.Fprintf(builder, "<h%d>%s</h%d>\n", section.Level, html.EscapeString(section.Title), section.Level)
	}

	for _, paragraph := range section.Paragraphs {
		if paragraph.Numbered() {
			fmt.Fprintf(builder, "<p class=\"numbered\"><strong>%d.</strong> %s</p>\n",
				paragraph.Number, htmlSpans(paragraph.Content))
		} else {
			fmt.Fprintf(builder, "<p>%s</p>\n", htmlSpans(paragraph.Content))
		}
	}

	for _, block := range section.Lists {
		listClass := "lettered"
		if block.Style == document.ListNumbered {
			listClass = "numbered"
		}
		fmt.Fprintf(builder, "<ol class=\"%s\">\n", listClass)
		for _, item := range block.Items {
			fmt.Fprintf(builder, "<li>%s</li>\n", htmlSpans(item))
		}
		builder.WriteString("</ol>\n")
	}

	for _, subsection := range section.Subsections {
		writeHTMLSection(builder, subsection)
	}
}

func htmlSpans(spans []document.Span) string {
	var builder strings.Builder
	for _, span := range spans {
		switch span.Kind {
		case document.SpanStrong:
			builder.WriteString("<strong>")
			builder.WriteString(html.EscapeString(span.Text))
			builder.WriteString("</strong>")
		case document.SpanItalic:
			builder.WriteString("<em>")
			builder.WriteString(html.EscapeString(span.Text))
			builder.WriteString("</em>")
		case document.SpanReference:
			if span.Ref != nil && span.Ref.State == document.ResolutionUnresolved {
				builder.WriteString("<span class=\"ref-error\">")
				builder.WriteString(html.EscapeString(span.Ref.Render()))
				builder.WriteString("</span>")
				continue
			}
			builder.WriteString(html.EscapeString(span.PlainText()))
		default:
			builder.WriteString(html.EscapeString(span.Text))
		}
	}
	return builder.String()
}
