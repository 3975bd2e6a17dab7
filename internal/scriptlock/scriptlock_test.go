package scriptlock

import "testing"

func TestAnalyzePureGurmukhi(t *testing.T) {
	a := Analyze("ਸਤਿ ਨਾਮੁ")
	if !a.IsPureGurmukhi() {
		t.Fatalf("expected pure gurmukhi, got %+v", a)
	}
	if a.ScriptPurity() != 1.0 {
		t.Fatalf("expected purity 1.0, got %v", a.ScriptPurity())
	}
}

func TestValidateStrictRejectsLatinHeavyText(t *testing.T) {
	if Validate("This is all English output from the model", Strict) {
		t.Fatalf("expected strict validation to fail on English text")
	}
}

func TestRepairIsIdempotent(t *testing.T) {
	text := "ਸਤਿ  ਨਾਮੁ   hello ਕਰਤਾ"
	once, _ := Repair(text)
	twice, changed := Repair(once)
	if twice != once {
		t.Fatalf("repair not idempotent: once=%q twice=%q", once, twice)
	}
	_ = changed
}

func TestRepairDropsOverlongLatinWord(t *testing.T) {
	repaired, _ := Repair("ਸਤਿ supercalifragilisticexpialidocious ਨਾਮੁ")
	if repaired != "ਸਤਿ ਨਾਮੁ" {
		t.Fatalf("expected overlong latin word dropped, got %q", repaired)
	}
}

func TestEnforceStrictBestEffort(t *testing.T) {
	text, analysis, repaired := Enforce("random english words here", true)
	if !repaired {
		t.Fatalf("expected repair to run for non-strict-valid text")
	}
	_ = text
	_ = analysis
}
