// Package assemble runs the document assembly pipeline: fragment
// loading, markup parsing, global paragraph numbering, two-pass
// label/reference resolution, and style validation. Every run owns its
// own counter, label table, and issue list, so independent runs may
// execute concurrently with no locking.
package assemble

import (
	"fmt"

	"github.com/coolbeans/draftsman/pkg/document"
	"github.com/coolbeans/draftsman/pkg/fragment"
	"github.com/coolbeans/draftsman/pkg/markup"
	"github.com/coolbeans/draftsman/pkg/metadata"
	"github.com/coolbeans/draftsman/pkg/style"
)

// Options configures one assembly run.
type Options struct {
	// DocumentType selects the required-section rules applied during
	// validation ("complaint", "motion", ...). Empty skips
	// type-specific structure checks.
	DocumentType string

	// Rules is the style rule set. Nil uses style.DefaultRuleSet.
	Rules *style.RuleSet

	// Metadata is the case metadata checked for required fields. Nil
	// skips metadata checks.
	Metadata *metadata.Metadata

	// SkipValidation assembles and resolves without running the style
	// engine.
	SkipValidation bool
}

// Assembler executes assembly runs. The assembler itself is stateless
// and safe for concurrent use; all mutable state is created per run.
type Assembler struct {
	parser *markup.Parser
	engine *style.Engine
}

// New creates an Assembler. Rule configuration problems (malformed
// patterns) surface here, before any assembly begins.
func New(opts Options) (*Assembler, error) {
	rules := opts.Rules
	if rules == nil {
		rules = style.DefaultRuleSet()
	}
	engine, engineErr := style.NewEngine(rules)
	if engineErr != nil {
		return nil, fmt.Errorf("style rules: %w", engineErr)
	}
	return &Assembler{
		parser: markup.NewParser(),
		engine: engine,
	}, nil
}

// Assemble runs the full pipeline against a fragment source and
// returns the resolved document. Phases are strictly sequential:
// numbering cannot start until every fragment is parsed, and reference
// resolution cannot start until numbering is complete. Nothing aborts
// mid-run; every recoverable anomaly becomes an issue on the document.
func (assembler *Assembler) Assemble(source fragment.Source, opts Options) (*document.Document, error) {
	fragments, loadIssues, loadErr := fragment.Load(source)
	if loadErr != nil {
		return nil, loadErr
	}

	doc := &document.Document{
		Type:   opts.DocumentType,
		Labels: make(document.LabelTable),
		Issues: loadIssues,
	}

	for _, frag := range fragments {
		section, parseIssues := assembler.parser.ParseFragment(frag)
		doc.Sections = append(doc.Sections, section)
		doc.Issues = append(doc.Issues, parseIssues...)
	}

	assignNumbers(doc)
	resolveReferences(doc)

	if !opts.SkipValidation {
		doc.Issues = append(doc.Issues, assembler.engine.CheckFragments(fragments)...)
		doc.Issues = append(doc.Issues, assembler.engine.CheckDocument(doc, opts.DocumentType)...)
		if opts.Metadata != nil {
			doc.Issues = append(doc.Issues, assembler.engine.CheckMetadata(opts.Metadata)...)
		}
	}

	return doc, nil
}

// assignNumbers threads a single global counter through every fragment
// in loader order and every subsection in document order. Only
// paragraphs that originated from an explicit numbered marker advance
// the counter; prose paragraphs keep the zero sentinel and are
// ineligible as reference targets. Label bindings are finalized here
// against assigned numbers, first binding wins.
func assignNumbers(doc *document.Document) {
	counter := 0
	doc.EachParagraph(func(section *document.Section, paragraph *document.Paragraph) {
		if paragraph.Numbered() {
			counter++
			paragraph.Number = counter
		}

		for _, label := range paragraph.Labels {
			if !paragraph.Numbered() {
				doc.Issues = append(doc.Issues, document.Issue{
					Severity: document.SeverityWarning,
					Category: "cross_references",
					Message:  fmt.Sprintf("label %q is bound to an unnumbered paragraph and cannot be referenced", label),
					Fragment: section.Fragment,
					Line:     paragraph.Line,
				})
				continue
			}
			if existing, bound := doc.Labels[label]; bound {
				doc.Issues = append(doc.Issues, document.Issue{
					Severity: document.SeverityError,
					Category: "cross_references",
					Message:  fmt.Sprintf("duplicate label %q: already bound to paragraph %d", label, existing),
					Fragment: section.Fragment,
					Line:     paragraph.Line,
				})
				continue
			}
			doc.Labels[label] = paragraph.Number
		}
	})
	doc.TotalParagraphs = counter
}

// resolveReferences is the second pass: with the label table complete,
// every pending reference placeholder in paragraph and list-item
// content is resolved to literal numbers or marked unresolved. A failed
// range reference produces exactly one issue naming both endpoint
// labels, even when both endpoints are missing.
func resolveReferences(doc *document.Document) {
	resolveSpans := func(section *document.Section, line int, spans []document.Span) {
		for _, span := range spans {
			if span.Kind != document.SpanReference || span.Ref == nil {
				continue
			}
			resolveReference(doc, section, line, span.Ref)
		}
	}

	doc.EachParagraph(func(section *document.Section, paragraph *document.Paragraph) {
		resolveSpans(section, paragraph.Line, paragraph.Content)
	})
	doc.EachList(func(section *document.Section, block *document.ListBlock) {
		for _, item := range block.Items {
			resolveSpans(section, block.Line, item)
		}
	})
}

func resolveReference(doc *document.Document, section *document.Section, line int, ref *document.Reference) {
	if !ref.IsRange() {
		number, bound := doc.Labels[ref.StartLabel]
		if !bound {
			ref.State = document.ResolutionUnresolved
			doc.Issues = append(doc.Issues, document.Issue{
				Severity: document.SeverityError,
				Category: "references",
				Message:  fmt.Sprintf("unresolved reference: %s", ref.StartLabel),
				Fragment: section.Fragment,
				Line:     line,
			})
			return
		}
		ref.State = document.ResolutionResolved
		ref.Start = number
		return
	}

	startNumber, startBound := doc.Labels[ref.StartLabel]
	endNumber, endBound := doc.Labels[ref.EndLabel]
	if !startBound || !endBound {
		ref.State = document.ResolutionUnresolved
		doc.Issues = append(doc.Issues, document.Issue{
			Severity: document.SeverityError,
			Category: "references",
			Message:  fmt.Sprintf("unresolved reference range: %s:%s", ref.StartLabel, ref.EndLabel),
			Fragment: section.Fragment,
			Line:     line,
		})
		return
	}

	ref.State = document.ResolutionResolved
	ref.Start = startNumber
	if endNumber != startNumber {
		// A range with identical bounds collapses to the single
		// number; a descending range is reported exactly as written.
		ref.End = endNumber
	}
}
