// Package style is the rule-driven validation engine. A RuleSet is
// loaded once per run from a YAML rule document and passed by
// reference into the engine; the engine inspects the resolved document
// tree and the raw fragment text, accumulates every violation as an
// issue, and never mutates the document. A run passes when no issue
// has error severity.
package style

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// RuleSet is the external style standard a document is validated
// against. Zero fields fall back to the documented defaults when the
// engine is built.
type RuleSet struct {
	Metadata      MetadataRules               `yaml:"metadata_requirements"`
	Quality       QualityRules                `yaml:"quality_standards"`
	Structure     StructureRules              `yaml:"structure"`
	DocumentTypes map[string]DocumentTypeSpec `yaml:"document_types"`
}

// MetadataRules lists metadata fields, as dotted paths, that every
// document folder must supply.
type MetadataRules struct {
	RequiredFields []string `yaml:"required_fields"`
}

// QualityRules holds the lexical quality limits.
type QualityRules struct {
	LineLength   LimitRule     `yaml:"line_length"`
	HeaderLength LimitRule     `yaml:"header_length"`
	Language     LanguageRules `yaml:"language"`
}

// LimitRule is a single numeric maximum.
type LimitRule struct {
	Max int `yaml:"max"`
}

// LanguageRules lists prohibited weak-modifier words, matched
// case-insensitively as whole words.
type LanguageRules struct {
	ProhibitedWords []string `yaml:"prohibited_words"`
}

// StructureRules holds structural conventions.
type StructureRules struct {
	// MaxHeaderDepth is the deepest allowed header level.
	MaxHeaderDepth int `yaml:"max_header_depth"`

	// FilenamePrefix is the pattern fragment identifiers should match
	// for deterministic ordering.
	FilenamePrefix string `yaml:"filename_prefix"`
}

// DocumentTypeSpec declares the sections a document type must contain.
type DocumentTypeSpec struct {
	RequiredSections []RequiredSection `yaml:"required_sections"`
}

// RequiredSection names one required top-level section. Matching
// against assembled section titles is case-insensitive.
type RequiredSection struct {
	Name string `yaml:"name"`
}

// DefaultRuleSet returns the built-in style standard: max header depth
// 3, max line length 120, max header length 80, two-digit filename
// prefixes, the standard weak-modifier word list, and required
// sections for complaints and motions.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		Metadata: MetadataRules{
			RequiredFields: []string{
				"document_info.type",
				"document_info.name",
				"document_info.court",
			},
		},
		Quality: QualityRules{
			LineLength:   LimitRule{Max: 120},
			HeaderLength: LimitRule{Max: 80},
			Language: LanguageRules{
				ProhibitedWords: []string{
					"clearly", "obviously", "very", "really",
					"extremely", "basically", "simply", "undoubtedly",
				},
			},
		},
		Structure: StructureRules{
			MaxHeaderDepth: 3,
			FilenamePrefix: `^\d{2}_`,
		},
		DocumentTypes: map[string]DocumentTypeSpec{
			"complaint": {
				RequiredSections: []RequiredSection{
					{Name: "Introduction"},
					{Name: "Jurisdiction and Venue"},
					{Name: "Parties"},
					{Name: "Factual Allegations"},
					{Name: "Causes of Action"},
					{Name: "Prayer for Relief"},
				},
			},
			"motion": {
				RequiredSections: []RequiredSection{
					{Name: "Introduction"},
					{Name: "Statement of Facts"},
					{Name: "Argument"},
					{Name: "Conclusion"},
				},
			},
		},
	}
}

// LoadRuleSet reads a rule document from a YAML file. Unset limits and
// lists are filled from the defaults so a rule file only needs to name
// what it changes.
func LoadRuleSet(path string) (*RuleSet, error) {
	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("reading rule set %s: %w", path, readErr)
	}
	rules := &RuleSet{}
	if err := yaml.Unmarshal(raw, rules); err != nil {
		return nil, fmt.Errorf("parsing rule set %s: %w", path, err)
	}
	rules.applyDefaults()
	return rules, nil
}

// applyDefaults fills zero-valued fields from DefaultRuleSet.
func (rules *RuleSet) applyDefaults() {
	defaults := DefaultRuleSet()
	if rules.Quality.LineLength.Max == 0 {
		rules.Quality.LineLength.Max = defaults.Quality.LineLength.Max
	}
	if rules.Quality.HeaderLength.Max == 0 {
		rules.Quality.HeaderLength.Max = defaults.Quality.HeaderLength.Max
	}
	if rules.Quality.Language.ProhibitedWords == nil {
		rules.Quality.Language.ProhibitedWords = defaults.Quality.Language.ProhibitedWords
	}
	if rules.Structure.MaxHeaderDepth == 0 {
		rules.Structure.MaxHeaderDepth = defaults.Structure.MaxHeaderDepth
	}
	if rules.Structure.FilenamePrefix == "" {
		rules.Structure.FilenamePrefix = defaults.Structure.FilenamePrefix
	}
	if rules.Metadata.RequiredFields == nil {
		rules.Metadata.RequiredFields = defaults.Metadata.RequiredFields
	}
	if rules.DocumentTypes == nil {
		rules.DocumentTypes = defaults.DocumentTypes
	}
}

// compile validates and compiles the configurable patterns. A
// malformed pattern is a construction-time failure, surfaced before
// any assembly begins.
func (rules *RuleSet) compile() (*compiledRules, error) {
	compiled := &compiledRules{}

	prefixPattern, prefixErr := regexp.Compile(rules.Structure.FilenamePrefix)
	if prefixErr != nil {
		return nil, fmt.Errorf("filename prefix pattern %q: %w", rules.Structure.FilenamePrefix, prefixErr)
	}
	compiled.filenamePrefix = prefixPattern

	for _, word := range rules.Quality.Language.ProhibitedWords {
		wordPattern, wordErr := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		if wordErr != nil {
			return nil, fmt.Errorf("prohibited word %q: %w", word, wordErr)
		}
		compiled.prohibitedWords = append(compiled.prohibitedWords, prohibitedWord{
			word:    word,
			pattern: wordPattern,
		})
	}

	return compiled, nil
}

// compiledRules holds the per-engine compiled forms of the
// configurable patterns.
type compiledRules struct {
	filenamePrefix  *regexp.Regexp
	prohibitedWords []prohibitedWord
}

type prohibitedWord struct {
	word    string
	pattern *regexp.Regexp
}
