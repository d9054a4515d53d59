package sharecode

import "testing"

func TestRoundTrip(t *testing.T) {
	codec, err := New("test-salt")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	code, err := codec.Encode(42)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if len(code) < 8 {
		t.Fatalf("expected padded code, got %q", code)
	}

	id, err := codec.Decode(code)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected 42, got %d", id)
	}
}

func TestDecodeGarbage(t *testing.T) {
	codec, err := New("test-salt")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if _, err := codec.Decode("not-a-code!"); err == nil {
		t.Fatal("expected error for garbage input")
	}
}

func TestDifferentSaltsDisagree(t *testing.T) {
	a, _ := New("salt-a")
	b, _ := New("salt-b")

	code, err := a.Encode(7)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if id, err := b.Decode(code); err == nil && id == 7 {
		t.Fatal("a foreign salt must not decode the code")
	}
}
