package render

import (
	"fmt"
	"strings"

	"github.com/coolbeans/draftsman/pkg/document"
)

// IssueReport renders the issue list as a human-readable validation
// report. The verdict is PASSED when no issue carries error severity.
func IssueReport(doc *document.Document) string {
	errors := doc.Issues.Errors()
	warnings := doc.Issues.Warnings()

	var builder strings.Builder
	builder.WriteString("Validation Report\n")
	builder.WriteString("=================\n")

	status := "PASSED"
	if len(errors) > 0 {
		status = "FAILED"
	}
	fmt.Fprintf(&builder, "Status: %s\n", status)
	fmt.Fprintf(&builder, "Paragraphs: %d\n", doc.TotalParagraphs)
	fmt.Fprintf(&builder, "Labels: %d\n", len(doc.Labels))
	fmt.Fprintf(&builder, "Total Issues: %d\n", len(doc.Issues))
	fmt.Fprintf(&builder, "Errors: %d\n", len(errors))
	fmt.Fprintf(&builder, "Warnings: %d\n", len(warnings))

	if len(doc.Issues) > 0 {
		builder.WriteString("\nIssues Found:\n")
		builder.WriteString("-------------\n")
		for _, issue := range doc.Issues {
			fmt.Fprintf(&builder, "  %s\n", issue.String())
		}
	}
	return builder.String()
}
