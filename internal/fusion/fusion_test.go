package fusion

import "testing"

func TestFuseSingleHypothesisAgreementIsOne(t *testing.T) {
	e := New(DefaultConfig())
	r, err := e.Fuse([]Hypothesis{{EngineID: "primary", Text: "ਸਤਿ ਨਾਮੁ", Confidence: 0.8}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.AgreementScore != 1.0 {
		t.Fatalf("expected agreement_score=1.0 for single hypothesis, got %v", r.AgreementScore)
	}
	if r.SelectedEngineID != "primary" {
		t.Fatalf("expected single hypothesis engine selected, got %v", r.SelectedEngineID)
	}
}

func TestFuseEmptyHypothesesIsError(t *testing.T) {
	e := New(DefaultConfig())
	_, err := e.Fuse(nil)
	if err == nil {
		t.Fatalf("expected error for empty hypothesis list")
	}
}

func TestFuseAgreementBoost(t *testing.T) {
	// Scenario 2 from spec.md: identical text, confidences 0.7 and 0.8.
	e := New(DefaultConfig())
	r, err := e.Fuse([]Hypothesis{
		{EngineID: "engine-a", Text: "ਸਤਿ ਨਾਮੁ ਕਰਤਾ ਪੁਰਖੁ", Confidence: 0.7},
		{EngineID: "engine-b", Text: "ਸਤਿ ਨਾਮੁ ਕਰਤਾ ਪੁਰਖੁ", Confidence: 0.8},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.SelectedEngineID != "engine-b" {
		t.Fatalf("expected higher-confidence engine to win, got %v", r.SelectedEngineID)
	}
	if r.AgreementScore != 1.0 {
		t.Fatalf("expected agreement 1.0 for identical text, got %v", r.AgreementScore)
	}
	if r.FusedConfidence != 0.9 {
		t.Fatalf("expected fused confidence 0.8+0.1=0.9, got %v", r.FusedConfidence)
	}
}

func TestShouldRedecodeOnLowAgreement(t *testing.T) {
	// Scenario 3 from spec.md: different texts, low confidences.
	e := New(DefaultConfig())
	r, err := e.Fuse([]Hypothesis{
		{EngineID: "engine-a", Text: "ਕੁਝ ਵੱਖਰਾ ਟੈਕਸਟ ਇੱਥੇ ਹੈ", Confidence: 0.4},
		{EngineID: "engine-b", Text: "ਪੂਰੀ ਤਰ੍ਹਾਂ ਵੱਖਰੀ ਆਵਾਜ਼ ਸੁਣੀ", Confidence: 0.45},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.ShouldRedecode(r) {
		t.Fatalf("expected redecode trigger for low-agreement, low-confidence fusion, got %+v", r)
	}
}

func TestShouldRedecodeStopsAtMaxAttempts(t *testing.T) {
	e := New(DefaultConfig())
	r := Result{FusedConfidence: 0.1, AgreementScore: 0.1, RedecodeAttempts: 2}
	if e.ShouldRedecode(r) {
		t.Fatalf("expected redecode to stop once max attempts reached")
	}
}

func TestTextSimilarityIdenticalIsOne(t *testing.T) {
	if s := TextSimilarity("ਸਤਿ ਨਾਮੁ", "ਸਤਿ ਨਾਮੁ"); s != 1.0 {
		t.Fatalf("expected identical text similarity 1.0, got %v", s)
	}
}

func TestTextSimilarityTokenOrderInvariant(t *testing.T) {
	s := TextSimilarity("ਸਤਿ ਨਾਮੁ ਕਰਤਾ", "ਕਰਤਾ ਸਤਿ ਨਾਮੁ")
	if s != 1.0 {
		t.Fatalf("expected token-sort ratio to ignore word order, got %v", s)
	}
}
