package rules

import (
	"strings"
	"testing"
)

func TestLoad_BundledEnglish(t *testing.T) {
	r, err := Bundled("en")
	if err != nil {
		t.Fatalf("Bundled(en) failed: %v", err)
	}

	if r.Code() != "en" {
		t.Errorf("expected code 'en', got %q", r.Code())
	}

	if !r.IsTerminatorChar('.') || !r.IsTerminatorChar('!') || !r.IsTerminatorChar('?') {
		t.Error("expected '.', '!', '?' to be registered terminators")
	}

	if matched, multiDot := r.IsAbbreviation("Dr"); !matched || multiDot {
		t.Errorf("expected 'Dr' to be a single-token abbreviation, got matched=%v multiDot=%v", matched, multiDot)
	}

	if matched, multiDot := r.IsAbbreviation("U.S.A"); !matched || !multiDot {
		t.Errorf("expected 'U.S.A' to be a multi-dot abbreviation, got matched=%v multiDot=%v", matched, multiDot)
	}

	if matched, _ := r.IsAbbreviation("Smith"); matched {
		t.Error("did not expect 'Smith' to match any abbreviation category")
	}

	if !r.IsSentenceStarter("He") {
		t.Error("expected 'He' to be a sentence starter")
	}

	if r.IsSentenceStarter("Smith") {
		t.Error("did not expect 'Smith' to be a sentence starter")
	}
}

func TestLoad_BundledJapanese(t *testing.T) {
	r, err := Bundled("ja")
	if err != nil {
		t.Fatalf("Bundled(ja) failed: %v", err)
	}

	if !r.IsTerminatorChar('。') || !r.IsTerminatorChar('！') || !r.IsTerminatorChar('？') {
		t.Error("expected Japanese full-width terminators to be registered")
	}

	id, opens, symmetric, extending, ok := r.EnclosureAt('「')
	if !ok || !opens || symmetric || !extending {
		t.Errorf("unexpected enclosure info for '「': id=%d opens=%v symmetric=%v extending=%v ok=%v", id, opens, symmetric, extending, ok)
	}

	closeID, closeOpens, _, _, closeOk := r.EnclosureAt('」')
	if !closeOk || closeOpens || closeID != id {
		t.Errorf("expected '」' to close the same enclosure id %d, got id=%d opens=%v ok=%v", id, closeID, closeOpens, closeOk)
	}
}

func TestBundled_UnknownLanguage(t *testing.T) {
	_, err := Bundled("xx")
	if err == nil {
		t.Fatal("expected error for unknown language code")
	}
	if !strings.Contains(err.Error(), "unsupported language") {
		t.Errorf("expected unsupported-language error, got: %v", err)
	}
}

func TestLoad_RejectsMissingCode(t *testing.T) {
	_, err := Load([]byte(`terminators: {chars: ["."]}`))
	if err == nil {
		t.Fatal("expected error for missing metadata.code")
	}
}

func TestLoad_RejectsBadTerminatorChar(t *testing.T) {
	doc := `
metadata: {code: zz, name: Bad}
terminators:
  chars: ["ab"]
`
	_, err := Load([]byte(doc))
	if err == nil {
		t.Fatal("expected error for multi-rune terminator char")
	}
}

func TestLoad_RejectsUnknownEllipsisCondition(t *testing.T) {
	doc := `
metadata: {code: zz, name: Bad}
ellipsis:
  patterns: ["..."]
  context_rules:
    - {condition: "bogus_condition", boundary: true}
`
	_, err := Load([]byte(doc))
	if err == nil {
		t.Fatal("expected error for unknown ellipsis context condition")
	}
}

func TestLoad_RejectsOverlappingEnclosureRunes(t *testing.T) {
	doc := `
metadata: {code: zz, name: Bad}
enclosures:
  - {open: "(", close: ")", symmetric: false}
  - {open: "(", close: "]", symmetric: false}
`
	_, err := Load([]byte(doc))
	if err == nil {
		t.Fatal("expected error for duplicate enclosure open rune")
	}
}

func TestLoad_RejectsInvalidRegex(t *testing.T) {
	doc := `
metadata: {code: zz, name: Bad}
suppression:
  regex_patterns: ["(unclosed"]
`
	_, err := Load([]byte(doc))
	if err == nil {
		t.Fatal("expected error for invalid suppression regex")
	}
}

func TestSuppressesFast_DecimalNumber(t *testing.T) {
	r, err := Bundled("en")
	if err != nil {
		t.Fatalf("Bundled(en) failed: %v", err)
	}

	if !r.SuppressesFast('.', '3', '1') {
		t.Error("expected '.' between digits to be suppressed")
	}

	if r.SuppressesFast('.', 'x', '1') {
		t.Error("did not expect '.' after a letter to be suppressed by the decimal rule")
	}
}

func TestEllipsisBoundaryFor(t *testing.T) {
	r, err := Bundled("en")
	if err != nil {
		t.Fatalf("Bundled(en) failed: %v", err)
	}

	if !r.EllipsisBoundaryFor("...", 'A', false) {
		t.Error("expected ellipsis followed by a capital letter to be a boundary")
	}

	if r.EllipsisBoundaryFor("...", 'a', false) {
		t.Error("expected ellipsis followed by a lowercase letter to not be a boundary")
	}

	if !r.EllipsisBoundaryFor("...", 0, true) {
		t.Error("expected ellipsis at end of input to be a boundary")
	}
}

func TestMaxLookback_CoversLongestAbbreviation(t *testing.T) {
	r, err := Bundled("en")
	if err != nil {
		t.Fatalf("Bundled(en) failed: %v", err)
	}

	if r.MaxLookback() < len("U.S.A") {
		t.Errorf("expected MaxLookback >= %d, got %d", len("U.S.A"), r.MaxLookback())
	}
}
