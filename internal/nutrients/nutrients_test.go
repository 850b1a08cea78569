package nutrients

import "testing"

func TestVectorAddScale(t *testing.T) {
	var a, b Vector
	a[Energy] = 100
	a[Iron] = 2
	b[Energy] = 50
	b[Sodium] = 10

	sum := a.Add(b)
	if got, want := sum.Get(Energy), 150.0; got != want {
		t.Fatalf("energy = %v, want %v", got, want)
	}
	if got, want := sum.Get(Sodium), 10.0; got != want {
		t.Fatalf("sodium = %v, want %v", got, want)
	}
	if a.Get(Sodium) != 0 {
		t.Fatalf("Add mutated receiver: %#v", a)
	}

	half := sum.Scale(0.5)
	if got, want := half.Get(Iron), 1.0; got != want {
		t.Fatalf("iron = %v, want %v", got, want)
	}
}

func TestKeyMetadata(t *testing.T) {
	if len(Keys) != int(numKeys) {
		t.Fatalf("Keys len = %d, want %d", len(Keys), numKeys)
	}
	for _, k := range Keys {
		if k.String() == "unknown" || k.Unit() == "" {
			t.Fatalf("key %d missing metadata", k)
		}
	}
	if got, want := VitaminA.Unit(), "µg RAE"; got != want {
		t.Fatalf("vitamin A unit = %q, want %q", got, want)
	}
	if Key(99).String() != "unknown" {
		t.Fatalf("out-of-range key should be unknown")
	}
}

func TestVectorIsZero(t *testing.T) {
	var v Vector
	if !v.IsZero() {
		t.Fatalf("zero vector not reported as zero")
	}
	v[Zinc] = 0.1
	if v.IsZero() {
		t.Fatalf("non-zero vector reported as zero")
	}
	if got := v.Map()["zinc"]; got != 0.1 {
		t.Fatalf("map zinc = %v, want 0.1", got)
	}
}
