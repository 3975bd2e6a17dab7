package correct

import (
	"strings"
	"testing"

	"gurbanicore/internal/lexicon"
)

func buildLexicon() *lexicon.Lexicon {
	lex := lexicon.New()
	lex.SGGSVocab["ਪੁਰਖੁ"] = struct{}{}
	lex.WordFrequencies["ਪੁਰਖੁ"] = 150
	return lex
}

func TestCorrectWordFixesSingleEditTypo(t *testing.T) {
	c := New(buildLexicon(), lexicon.DomainSGGS)
	res := c.CorrectWord("ਪੁਰਕ")
	if !res.WasCorrected || res.Corrected != "ਪੁਰਖੁ" {
		t.Fatalf("expected correction to ਪੁਰਖੁ, got %+v", res)
	}
}

func TestCorrectWordLeavesKnownWordAlone(t *testing.T) {
	c := New(buildLexicon(), lexicon.DomainSGGS)
	res := c.CorrectWord("ਪੁਰਖੁ")
	if res.WasCorrected {
		t.Fatalf("expected no correction for already-known word, got %+v", res)
	}
}

func TestCorrectWordAppliesSpellingVariant(t *testing.T) {
	lex := lexicon.New()
	lex.SGGSVocab["ਗੁੜੂ"] = struct{}{}
	c := New(lex, lexicon.DomainSGGS)
	res := c.CorrectWord("ਗੁੜੂ")
	if res.Corrected != "ਗੁਰੂ" {
		t.Fatalf("expected spelling-variant normalization, got %q", res.Corrected)
	}
}

func TestCorrectTextPreservesWordCount(t *testing.T) {
	c := New(buildLexicon(), lexicon.DomainSGGS)
	text := "ਸਤਿ ਨਾਮੁ ਪੁਰਕ ਕਰਤਾ"
	result := c.CorrectText(text, false)
	if len(strings.Fields(result.Text)) != len(strings.Fields(text)) {
		t.Fatalf("word count changed: before=%d after=%d", len(strings.Fields(text)), len(strings.Fields(result.Text)))
	}
}

func TestConservativeCorrectorStricterBound(t *testing.T) {
	c := NewConservative(buildLexicon(), lexicon.DomainSGGS)
	if c.MaxEdit != 1 || c.MinConfidence != 0.7 {
		t.Fatalf("unexpected conservative defaults: %+v", c)
	}
}
