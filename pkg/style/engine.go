package style

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/coolbeans/draftsman/pkg/document"
	"github.com/coolbeans/draftsman/pkg/fragment"
	"github.com/coolbeans/draftsman/pkg/metadata"
)

var (
	// unboldNumberPattern matches a bare paragraph number at line start
	// that should be bold (**1.**).
	unboldNumberPattern = regexp.MustCompile(`^\d+\.`)

	// singleAsteriskNumberPattern matches the wrong single-asterisk
	// form *1* instead of **1.**.
	singleAsteriskNumberPattern = regexp.MustCompile(`\*\d+\*`)

	// boldNumberPattern is the compliant bold marker form.
	boldNumberPattern = regexp.MustCompile(`\*\*\d+\.\*\*`)

	// statutePattern matches federal statute citations that must be
	// bold.
	statutePattern     = regexp.MustCompile(`\b\d+\s+U\.S\.C\.\s+§\s+\d+`)
	boldStatutePattern = regexp.MustCompile(`\*\*[^*]*\d+\s+U\.S\.C\.\s+§\s+\d+[^*]*\*\*`)

	// caseNamePattern matches case names that must be italic.
	caseNamePattern       = regexp.MustCompile(`\b[A-Z][a-z]+\s+v\.\s+[A-Z][a-z]+`)
	italicCaseNamePattern = regexp.MustCompile(`\*[^*]*[A-Z][a-z]+\s+v\.\s+[A-Z][a-z]+[^*]*\*`)

	// labelDefPattern / refPattern / refRangePattern extract the names
	// whose legality is checked against document.LabelNamePattern.
	labelDefPattern = regexp.MustCompile(`\{\{LABEL:([^}]+)\}\}`)
	refPattern      = regexp.MustCompile(`\{\{REF:([^}]+)\}\}`)
	refRangePattern = regexp.MustCompile(`\{\{REF_RANGE:([^:}]+):([^}]+)\}\}`)

	headerLinePattern = regexp.MustCompile(`^(#+)\s*(.*)$`)
)

// Engine runs structural and lexical checks against one rule set. The
// engine only reads; it never mutates the document it inspects, and it
// never stops at the first violation.
type Engine struct {
	rules    *RuleSet
	compiled *compiledRules
}

// NewEngine builds an engine from a rule set, compiling its
// configurable patterns. Nil rules use the defaults.
func NewEngine(rules *RuleSet) (*Engine, error) {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	rules.applyDefaults()
	compiled, compileErr := rules.compile()
	if compileErr != nil {
		return nil, compileErr
	}
	return &Engine{rules: rules, compiled: compiled}, nil
}

// Rules returns the rule set the engine was built from.
func (engine *Engine) Rules() *RuleSet {
	return engine.rules
}

// CheckFragments runs the lexical checks over raw fragment text, line
// by line, and the filename convention check per fragment.
func (engine *Engine) CheckFragments(fragments []fragment.Fragment) document.IssueList {
	var issues document.IssueList
	for _, frag := range fragments {
		if !engine.compiled.filenamePrefix.MatchString(frag.ID) {
			issues = append(issues, document.Issue{
				Severity: document.SeverityWarning,
				Category: "file_naming",
				Message:  "fragments should use numbered prefixes: 01_, 02_, etc.",
				Fragment: frag.ID,
			})
		}

		for lineIndex, line := range strings.Split(frag.Text, "\n") {
			issues = append(issues, engine.checkLine(frag.ID, lineIndex+1, line)...)
		}
	}
	return issues
}

// checkLine applies every lexical check to one raw line.
func (engine *Engine) checkLine(fragmentID string, lineNumber int, line string) document.IssueList {
	var issues document.IssueList
	report := func(severity document.Severity, category, message string) {
		issues = append(issues, document.Issue{
			Severity: severity,
			Category: category,
			Message:  message,
			Fragment: fragmentID,
			Line:     lineNumber,
		})
	}

	if lineLength := len(line); lineLength > engine.rules.Quality.LineLength.Max {
		report(document.SeverityWarning, "line_length",
			fmt.Sprintf("line exceeds maximum length (%d characters)", lineLength))
	}

	trimmed := strings.TrimSpace(line)

	if unboldNumberPattern.MatchString(trimmed) {
		report(document.SeverityError, "paragraph_numbering",
			"paragraph numbers must be bold: **1.** not 1.")
	}
	if !boldNumberPattern.MatchString(line) && singleAsteriskNumberPattern.MatchString(line) {
		report(document.SeverityError, "paragraph_numbering",
			"use double asterisks for bold: **1.** not *1*")
	}

	if statutePattern.MatchString(line) && !boldStatutePattern.MatchString(line) {
		report(document.SeverityError, "legal_citations",
			"statutes must be bold: **15 U.S.C. § 1681n**")
	}
	if caseNamePattern.MatchString(line) && !italicCaseNamePattern.MatchString(line) {
		report(document.SeverityWarning, "legal_citations",
			"case names must be italic: *Smith v. Jones*")
	}

	for _, match := range labelDefPattern.FindAllStringSubmatch(line, -1) {
		if !document.LabelNamePattern.MatchString(match[1]) {
			report(document.SeverityError, "cross_references",
				fmt.Sprintf("label names must be lowercase with underscores: {{LABEL:%s}}", match[1]))
		}
	}
	for _, match := range refPattern.FindAllStringSubmatch(line, -1) {
		if !document.LabelNamePattern.MatchString(match[1]) {
			report(document.SeverityError, "cross_references",
				fmt.Sprintf("reference names must be lowercase with underscores: {{REF:%s}}", match[1]))
		}
	}
	for _, match := range refRangePattern.FindAllStringSubmatch(line, -1) {
		for _, endpoint := range match[1:3] {
			if !document.LabelNamePattern.MatchString(endpoint) {
				report(document.SeverityError, "cross_references",
					fmt.Sprintf("reference names must be lowercase with underscores: {{REF_RANGE:%s:%s}}", match[1], match[2]))
				break
			}
		}
	}

	for _, prohibited := range engine.compiled.prohibitedWords {
		if prohibited.pattern.MatchString(line) {
			report(document.SeverityWarning, "language",
				fmt.Sprintf("avoid weak modifier: %q", prohibited.word))
		}
	}

	if headerMatch := headerLinePattern.FindStringSubmatch(trimmed); headerMatch != nil {
		headerText := strings.TrimSpace(headerMatch[2])
		if headerText != "" {
			if first := []rune(headerText)[0]; unicode.IsLetter(first) && !unicode.IsUpper(first) {
				report(document.SeverityWarning, "headers",
					"headers must start with an uppercase letter")
			}
		}
		if len(headerText) > engine.rules.Quality.HeaderLength.Max {
			report(document.SeverityWarning, "headers",
				fmt.Sprintf("header exceeds maximum length of %d characters", engine.rules.Quality.HeaderLength.Max))
		}
	}

	return issues
}

// CheckDocument runs the structural checks against the resolved
// document tree: header depth and the required top-level sections for
// the declared document type. Title matching is case-insensitive.
func (engine *Engine) CheckDocument(doc *document.Document, documentType string) document.IssueList {
	var issues document.IssueList

	for _, section := range doc.Sections {
		section.Walk(func(current *document.Section) {
			if current.Level > engine.rules.Structure.MaxHeaderDepth {
				issues = append(issues, document.Issue{
					Severity: document.SeverityError,
					Category: "headers",
					Message: fmt.Sprintf("section %q at depth %d exceeds maximum depth %d",
						current.Title, current.Level, engine.rules.Structure.MaxHeaderDepth),
					Fragment: current.Fragment,
				})
			}
		})
	}

	if documentType == "" {
		return issues
	}
	spec, known := engine.rules.DocumentTypes[documentType]
	if !known {
		issues = append(issues, document.Issue{
			Severity: document.SeverityWarning,
			Category: "structure",
			Message:  fmt.Sprintf("unknown document type: %s", documentType),
		})
		return issues
	}

	titles := make(map[string]bool)
	for _, section := range doc.Sections {
		if section.Title != "" {
			titles[strings.ToUpper(section.Title)] = true
		}
	}
	for _, required := range spec.RequiredSections {
		if !titles[strings.ToUpper(required.Name)] {
			issues = append(issues, document.Issue{
				Severity: document.SeverityError,
				Category: "structure",
				Message:  fmt.Sprintf("missing required section: %s", strings.ToUpper(required.Name)),
			})
		}
	}
	return issues
}

// CheckMetadata verifies every required metadata field, addressed by
// dotted path, is present and non-empty.
func (engine *Engine) CheckMetadata(meta *metadata.Metadata) document.IssueList {
	var issues document.IssueList
	for _, fieldPath := range engine.rules.Metadata.RequiredFields {
		if _, ok := meta.Lookup(fieldPath); !ok {
			issues = append(issues, document.Issue{
				Severity: document.SeverityError,
				Category: "metadata",
				Message:  fmt.Sprintf("missing required metadata field: %s", fieldPath),
				Fragment: meta.Path,
			})
		}
	}
	return issues
}
