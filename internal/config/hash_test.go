package config

import "testing"

func TestHashBytesDeterministic(t *testing.T) {
	t.Parallel()
	a := hashBytes([]byte("hello"))
	b := hashBytes([]byte("hello"))
	if a != b {
		t.Fatalf("hashBytes() not deterministic: %d != %d", a, b)
	}
	if hashBytes([]byte("world")) == a {
		t.Fatalf("hashBytes() collided for distinct inputs")
	}
}

func TestCanonicalHashJSONIgnoresKeyOrder(t *testing.T) {
	t.Parallel()
	a := map[string]any{"b": 2, "a": 1}
	b := map[string]any{"a": 1, "b": 2}
	if canonicalHashJSON(a) != canonicalHashJSON(b) {
		t.Fatalf("canonicalHashJSON() differs across key order")
	}
}

func TestCanonicalHashJSONDiffersOnValueChange(t *testing.T) {
	t.Parallel()
	a := map[string]any{"a": 1}
	b := map[string]any{"a": 2}
	if canonicalHashJSON(a) == canonicalHashJSON(b) {
		t.Fatalf("canonicalHashJSON() collided for distinct values")
	}
}
