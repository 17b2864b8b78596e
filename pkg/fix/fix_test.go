package fix

import (
	"strings"
	"testing"
)

func TestConvertLegacyMarkers(t *testing.T) {
	t.Run("both_legacy_forms", func(t *testing.T) {
		converted, count := ConvertLegacyMarkers("**P1** First.\n\n**P2.** Second.")
		if count != 2 {
			t.Errorf("Expected 2 conversions, got %d", count)
		}
		if !strings.Contains(converted, "**1.** First.") || !strings.Contains(converted, "**2.** Second.") {
			t.Errorf("Unexpected conversion result:\n%s", converted)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		once, _ := ConvertLegacyMarkers("**P7** Legacy paragraph.")
		twice, count := ConvertLegacyMarkers(once)
		if count != 0 {
			t.Errorf("Expected no conversions on second pass, got %d", count)
		}
		if twice != once {
			t.Errorf("Expected second pass to change nothing:\n%q\n%q", once, twice)
		}
	})

	t.Run("standard_markers_untouched", func(t *testing.T) {
		converted, count := ConvertLegacyMarkers("**3.** Already standard.")
		if count != 0 || converted != "**3.** Already standard." {
			t.Errorf("Expected no change, got %q (%d)", converted, count)
		}
	})
}

func TestFixTextParagraphNumbers(t *testing.T) {
	t.Run("bolds_unformatted_number", func(t *testing.T) {
		fixed, fixes := FixText("1. The parties are diverse.")
		if fixed != "**1.** The parties are diverse." {
			t.Errorf("Expected bolded marker, got %q", fixed)
		}
		if len(fixes) != 1 || fixes[0].Type != "paragraph_numbering" {
			t.Errorf("Unexpected fixes: %+v", fixes)
		}
	})

	t.Run("replaces_single_asterisks", func(t *testing.T) {
		fixed, fixes := FixText("*2* Venue is proper.")
		if fixed != "**2.** Venue is proper." {
			t.Errorf("Expected bold form, got %q", fixed)
		}
		if len(fixes) != 1 {
			t.Errorf("Expected 1 fix, got %+v", fixes)
		}
	})

	t.Run("compliant_text_unchanged", func(t *testing.T) {
		original := "**1.** Properly formatted paragraph."
		fixed, fixes := FixText(original)
		if fixed != original {
			t.Errorf("Expected no change, got %q", fixed)
		}
		if len(fixes) != 0 {
			t.Errorf("Expected no fixes, got %+v", fixes)
		}
	})
}

func TestFixTextHeaders(t *testing.T) {
	t.Run("clamps_deep_header", func(t *testing.T) {
		fixed, fixes := FixText("#### Deep Heading")
		if fixed != "### Deep Heading" {
			t.Errorf("Expected clamped header, got %q", fixed)
		}
		if len(fixes) != 1 || fixes[0].Type != "headers" {
			t.Errorf("Unexpected fixes: %+v", fixes)
		}
	})

	t.Run("uppercases_first_letter", func(t *testing.T) {
		fixed, _ := FixText("## introduction")
		if fixed != "## Introduction" {
			t.Errorf("Expected uppercased header, got %q", fixed)
		}
	})
}

func TestFixTextCitations(t *testing.T) {
	t.Run("bolds_statute", func(t *testing.T) {
		fixed, fixes := FixText("This claim arises under 15 U.S.C. § 1681n and related law.")
		if !strings.Contains(fixed, "**15 U.S.C. § 1681n**") {
			t.Errorf("Expected bolded statute, got %q", fixed)
		}
		if len(fixes) != 1 || fixes[0].Type != "legal_citations" {
			t.Errorf("Unexpected fixes: %+v", fixes)
		}
	})

	t.Run("italicizes_case_name", func(t *testing.T) {
		fixed, _ := FixText("As held in Smith v. Jones, notice is required.")
		if !strings.Contains(fixed, "*Smith v. Jones*") {
			t.Errorf("Expected italicized case name, got %q", fixed)
		}
	})

	t.Run("formatted_citations_untouched", func(t *testing.T) {
		original := "Under **15 U.S.C. § 1681n** and *Smith v. Jones*, relief follows."
		fixed, fixes := FixText(original)
		if fixed != original {
			t.Errorf("Expected no change, got %q", fixed)
		}
		if len(fixes) != 0 {
			t.Errorf("Expected no fixes, got %+v", fixes)
		}
	})
}

func TestFixTextLegacyThenNumbering(t *testing.T) {
	text := "**P1** First legacy paragraph.\n\n2. Unbold follow-up."
	fixed, fixes := FixText(text)

	if !strings.Contains(fixed, "**1.** First legacy paragraph.") {
		t.Errorf("Expected legacy marker converted, got %q", fixed)
	}
	if !strings.Contains(fixed, "**2.** Unbold follow-up.") {
		t.Errorf("Expected unbold number fixed, got %q", fixed)
	}
	if len(fixes) != 2 {
		t.Errorf("Expected 2 fixes, got %+v", fixes)
	}
}
