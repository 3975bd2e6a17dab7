package transport

import (
	"encoding/json"
	"testing"
)

func TestJSONCodecRoundTrip(t *testing.T) {
	codec := jsonCodec{}
	msg := &Message{
		Type:       EventVerified,
		SessionID:  "sess-1",
		SegmentID:  "seg-1",
		Start:      1.5,
		End:        3.25,
		Text:       "ਸਤਿ ਨਾਮੁ",
		Confidence: 0.92,
		QuoteMatch: &QuoteMatchWire{Source: "SGGS", LineID: "l1", Ang: 1, Confidence: 0.95, Method: "fuzzy"},
	}

	data, err := codec.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Message
	if err := codec.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Type != EventVerified || got.SessionID != "sess-1" || got.Text != "ਸਤਿ ਨਾਮੁ" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.QuoteMatch == nil || got.QuoteMatch.LineID != "l1" {
		t.Errorf("expected quote match to survive round trip, got %+v", got.QuoteMatch)
	}
}

func TestMessageOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(&Message{Type: EventDraft, SessionID: "s"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := raw["quote_match"]; ok {
		t.Error("expected quote_match to be omitted when nil")
	}
	if _, ok := raw["message"]; ok {
		t.Error("expected error message to be omitted when empty")
	}
}

func TestDefaultAddressIsPlatformAppropriate(t *testing.T) {
	addr := defaultAddress()
	if addr == "" {
		t.Fatal("expected a non-empty default address")
	}
}

func TestListenRejectsUnknownScheme(t *testing.T) {
	_, err := listen("bogus:/tmp/x.sock")
	if err == nil {
		t.Error("expected an address with an unrecognised scheme to be rejected")
	}
}
