package drift

import (
	"testing"

	"gurbanicore/internal/lexicon"
)

func TestDetectCriticalOnEnglishText(t *testing.T) {
	d := New(lexicon.New(), lexicon.DomainSGGS)
	diag := d.Detect("This is all English output from the model")
	if diag.Severity != SeverityCritical {
		t.Fatalf("expected critical severity, got %v (purity=%v latin=%v)", diag.Severity, diag.ScriptPurity, diag.LatinRatio)
	}
	if !diag.Reject || !diag.Redecode {
		t.Fatalf("expected reject+redecode recommendations for critical severity, got %+v", diag)
	}
}

func TestDetectNoneOnCleanGurmukhi(t *testing.T) {
	lex := lexicon.New()
	lex.SGGSVocab["ਸਤਿ"] = struct{}{}
	lex.SGGSVocab["ਨਾਮੁ"] = struct{}{}
	lex.SGGSVocab["ਕਰਤਾ"] = struct{}{}
	lex.SGGSVocab["ਪੁਰਖੁ"] = struct{}{}

	d := New(lex, lexicon.DomainSGGS)
	diag := d.Detect("ਸਤਿ ਨਾਮੁ ਕਰਤਾ ਪੁਰਖੁ")
	if diag.Severity != SeverityNone {
		t.Fatalf("expected none severity for clean known vocabulary, got %v diag=%+v", diag.Severity, diag)
	}
}

func TestDetectURLAlwaysCritical(t *testing.T) {
	d := New(lexicon.New(), lexicon.DomainSGGS)
	diag := d.Detect("ਸਤਿ ਨਾਮੁ http://example.com ਕਰਤਾ")
	if diag.Severity != SeverityCritical {
		t.Fatalf("expected URL presence to force critical, got %v", diag.Severity)
	}
}

func TestSeverityMonotoneUnderMoreLatin(t *testing.T) {
	d := New(lexicon.New(), lexicon.DomainSGGS)
	base := d.Detect("ਸਤਿ ਨਾਮੁ")
	withLatin := d.Detect("ਸਤਿ ਨਾਮੁ more english words added here to dilute purity")
	severityRank := map[Severity]int{SeverityNone: 0, SeverityLow: 1, SeverityMedium: 2, SeverityHigh: 3, SeverityCritical: 4}
	if severityRank[withLatin.Severity] < severityRank[base.Severity] {
		t.Fatalf("severity decreased after adding latin content: base=%v with=%v", base.Severity, withLatin.Severity)
	}
}
