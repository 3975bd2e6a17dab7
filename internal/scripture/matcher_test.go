package scripture

import "testing"

func sampleLines() []Line {
	return []Line{
		{ID: "sggs-1", Source: "SGGS", Gurmukhi: "ਸਤਿ ਨਾਮੁ ਕਰਤਾ ਪੁਰਖੁ", Ang: 1},
		{ID: "sggs-2", Source: "SGGS", Gurmukhi: "ਆਦਿ ਸਚੁ ਜੁਗਾਦਿ ਸਚੁ", Ang: 1},
	}
}

type fakeStore struct{ lines []Line }

func (f fakeStore) SearchByText(text string, topK int, fuzzy bool) []Line {
	return f.lines
}
func (f fakeStore) GetLineByID(id string) (Line, bool) {
	for _, l := range f.lines {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}
func (f fakeStore) GetContext(id string, window int) []Line { return f.lines }

func TestFindMatchSnapsMisspelledQuote(t *testing.T) {
	m := New(fakeStore{lines: sampleLines()}, nil)
	match := m.FindMatch("ਸਤਿ ਨਾਮੁ ਕਰਤਾ ਪੁਰਕ", nil)
	if match == nil {
		t.Fatalf("expected a match for near-identical misspelled quote")
	}
	if match.CanonicalText != "ਸਤਿ ਨਾਮੁ ਕਰਤਾ ਪੁਰਖੁ" {
		t.Fatalf("expected canonical snap, got %q", match.CanonicalText)
	}
	if !ShouldReplace(match) {
		t.Fatalf("expected match confidence %v to clear replacement threshold", match.Confidence)
	}
}

func TestFindMatchNoStoreReturnsNil(t *testing.T) {
	m := New(nil, nil)
	if m.FindMatch("anything", nil) != nil {
		t.Fatalf("expected nil match with no store configured")
	}
}

func TestDetectCandidateRouteHint(t *testing.T) {
	res := DetectCandidate("some text", RouteScriptureQuoteLikely)
	if !res.IsCandidate || res.DetectionReason != "route_hint" {
		t.Fatalf("expected route hint to force candidate, got %+v", res)
	}
}

func TestDetectCandidateIntroPhrase(t *testing.T) {
	res := DetectCandidate("ਜਿਵੇਂ ਬਾਣੀ ਵਿੱਚ ਕਿਹਾ ਗਿਆ ਹੈ ਕਿ ਸਤਿ ਨਾਮੁ", "")
	if !res.IsCandidate {
		t.Fatalf("expected intro phrase to trigger candidate detection")
	}
}

func TestDetectCandidateRejectsPlainText(t *testing.T) {
	res := DetectCandidate("just a normal sentence with nothing special in it today", "")
	if res.IsCandidate {
		t.Fatalf("expected plain text to not be flagged as a quote candidate")
	}
}
