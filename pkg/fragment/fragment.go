// Package fragment loads the ordered raw-text fragments that one
// assembly run merges into a single document. Fragments are identified
// by filename and ordered lexically; the conventional two-digit prefix
// (01_intro.md, 02_facts.md) gives authors control over that order.
package fragment

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coolbeans/draftsman/pkg/document"
)

// Fragment is one unit of raw source text contributing to a document.
// Immutable once loaded.
type Fragment struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
	Text  string `json:"text"`
}

// Source supplies an ordered sequence of (identifier, raw text) pairs.
// Implementations must return fragments in the lexical order of their
// identifiers and must be deterministic across calls for unchanged
// content.
type Source interface {
	Fragments() ([]Fragment, error)
}

// SliceSource is an in-memory Source for embedding and tests. Pairs are
// returned in the order given, re-sorted lexically by identifier.
type SliceSource []Fragment

// Fragments returns the pairs sorted lexically by ID.
func (source SliceSource) Fragments() ([]Fragment, error) {
	fragments := make([]Fragment, len(source))
	copy(fragments, source)
	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].ID < fragments[j].ID
	})
	return fragments, nil
}

// DirSource reads markdown fragments from a document folder. If the
// folder contains a draft_content subfolder the fragments are read from
// there, otherwise from the folder itself.
type DirSource struct {
	Dir string
}

// Fragments reads every *.md file in the content directory, sorted
// lexically by filename.
func (source DirSource) Fragments() ([]Fragment, error) {
	contentDir := source.Dir
	draftContentDir := filepath.Join(source.Dir, "draft_content")
	if info, statErr := os.Stat(draftContentDir); statErr == nil && info.IsDir() {
		contentDir = draftContentDir
	}

	entries, readErr := os.ReadDir(contentDir)
	if readErr != nil {
		return nil, fmt.Errorf("reading fragment directory %s: %w", contentDir, readErr)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	fragments := make([]Fragment, 0, len(names))
	for index, name := range names {
		content, fileErr := os.ReadFile(filepath.Join(contentDir, name))
		if fileErr != nil {
			return nil, fmt.Errorf("reading fragment %s: %w", name, fileErr)
		}
		fragments = append(fragments, Fragment{
			ID:    name,
			Order: index + 1,
			Text:  string(content),
		})
	}
	return fragments, nil
}

// Load materializes fragments from a source, dropping empty or
// whitespace-only fragments with a warning. Loading fails only when the
// source itself fails or when no fragment carries any content, both of
// which are construction-time conditions reported before assembly
// begins.
func Load(source Source) ([]Fragment, document.IssueList, error) {
	raw, sourceErr := source.Fragments()
	if sourceErr != nil {
		return nil, nil, sourceErr
	}

	var issues document.IssueList
	fragments := make([]Fragment, 0, len(raw))
	for _, candidate := range raw {
		if strings.TrimSpace(candidate.Text) == "" {
			issues = append(issues, document.Issue{
				Severity: document.SeverityWarning,
				Category: "fragment",
				Message:  "fragment is empty and was skipped",
				Fragment: candidate.ID,
			})
			continue
		}
		candidate.Order = len(fragments) + 1
		fragments = append(fragments, candidate)
	}

	if len(fragments) == 0 {
		return nil, issues, fmt.Errorf("fragment source is empty: no fragments with content")
	}
	return fragments, issues, nil
}
