package id

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	parsed, err := Parse("752831914402775381")
	if err != nil {
		t.Fatal(err)
	}
	if parsed != ID(752831914402775381) {
		t.Fatalf("unexpected ID: %d", parsed)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{"", "0", "-1", "abc", "12x"} {
		if _, err := Parse(s); err == nil {
			t.Fatalf("Parse(%q) should fail", s)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	orig := New(42)
	parsed, err := Parse(orig.String())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != orig {
		t.Fatalf("round trip: got %v, want %v", parsed, orig)
	}
}

func TestNilString(t *testing.T) {
	if Nil.String() != "" {
		t.Fatal("Nil should stringify to empty")
	}
	if !Nil.IsZero() {
		t.Fatal("Nil should be zero")
	}
}

func TestJSONEncoding(t *testing.T) {
	// Snowflakes must travel as strings, not numbers.
	b, err := json.Marshal(New(752831914402775381))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"752831914402775381"` {
		t.Fatalf("unexpected encoding: %s", b)
	}

	var decoded ID
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != ID(752831914402775381) {
		t.Fatalf("unexpected decoded ID: %d", decoded)
	}
}

func TestNewPanicsOnZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New(0) should panic")
		}
	}()
	New(0)
}
