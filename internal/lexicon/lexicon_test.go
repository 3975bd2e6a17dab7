package lexicon

import "testing"

func TestContainsHonorific(t *testing.T) {
	lex := New()
	if !lex.Contains("ਜੀ", DomainSGGS) {
		t.Fatalf("expected honorific ਜੀ to be in vocabulary")
	}
}

func TestGetCombinedVocabGenericUnionsBoth(t *testing.T) {
	lex := New()
	lex.SGGSVocab["ਹਰਿ"] = struct{}{}
	lex.DasamVocab["ਕਾਲ"] = struct{}{}

	vocab := lex.GetCombinedVocab(DomainGeneric)
	found := map[string]bool{}
	for _, w := range vocab {
		found[w] = true
	}
	if !found["ਹਰਿ"] || !found["ਕਾਲ"] {
		t.Fatalf("generic mode should union SGGS and Dasam vocab, got %v", vocab)
	}
}

func TestDomainPrioritiesPriorityListDeterministic(t *testing.T) {
	p := GetDomainPriorities(DomainSGGS)
	first := p.PriorityList()
	second := p.PriorityList()
	if len(first) != len(second) {
		t.Fatalf("priority list length mismatch")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("priority list not deterministic at index %d: %v vs %v", i, first, second)
		}
	}
	if first[0] != RegisterSantBhasha {
		t.Fatalf("expected sant_bhasha to be top SGGS priority, got %v", first[0])
	}
}

func TestBuildFromStoreCountsLines(t *testing.T) {
	store := fakeStore{
		sggs:  []ScriptureLine{{GurmukhiText: "ਸਤਿ ਨਾਮੁ"}, {GurmukhiText: "ਕਰਤਾ ਪੁਰਖੁ"}},
		dasam: []ScriptureLine{{GurmukhiText: "ਕਾਲ ਪੁਰਖ"}},
	}
	lex := BuildFromStore(store)
	if lex.Metadata.SGGSLineCount != 2 || lex.Metadata.DasamLineCount != 1 {
		t.Fatalf("unexpected line counts: %+v", lex.Metadata)
	}
	if lex.GetFrequency("ਸਤਿ") != 1 {
		t.Fatalf("expected frequency 1 for ਸਤਿ, got %d", lex.GetFrequency("ਸਤਿ"))
	}
}

type fakeStore struct {
	sggs, dasam []ScriptureLine
}

func (f fakeStore) AllLines(source string) []ScriptureLine {
	if source == "SGGS" {
		return f.sggs
	}
	return f.dasam
}
