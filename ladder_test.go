package ladder_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/qctools/ladder"
)

// ============================================================
// Parse tests
// ============================================================

func TestParse_RoundTrip(t *testing.T) {
	e, err := ladder.Parse("2a+_a(+)1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := e.Coefficient("a+_a"); got != 2 {
		t.Errorf("want coefficient 2 for a+_a, got %v", got)
	}
	if got := e.Coefficient(""); got != 1 {
		t.Errorf("want constant 1, got %v", got)
	}
	if e.Len() != 2 {
		t.Errorf("want 2 terms, got %d", e.Len())
	}
	modes := e.Modes()
	if len(modes) != 1 || modes[0] != 'a' {
		t.Errorf("want modes [a], got %q", string(modes))
	}
}

func TestParse_Empty_IsZero(t *testing.T) {
	e, err := ladder.Parse("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Len() != 0 {
		t.Errorf("empty input should be the zero expression, got %d terms", e.Len())
	}
	if e.String() != "0" {
		t.Errorf("want 0, got %s", e.String())
	}
}

func TestParse_DefaultCoefficient(t *testing.T) {
	e := ladder.MustParse("a+_a")
	if got := e.Coefficient("a+_a"); got != 1 {
		t.Errorf("missing prefix should default to 1, got %v", got)
	}
}

func TestParse_ComplexCoefficients(t *testing.T) {
	cases := []struct {
		in   string
		key  string
		want complex128
	}{
		{"3a", "a", 3},
		{"-1.5b+", "b+", -1.5},
		{"3+4ja", "a", 3 + 4i},
		{"ja", "a", 1i},
		{"-jb", "b", -1i},
		{"4.ja", "a", 4i},
		{"2+0j", "", 2},
		{"j", "", 1i},
	}
	for _, c := range cases {
		e, err := ladder.Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got := e.Coefficient(c.key); got != c.want {
			t.Errorf("Parse(%q): want %v for key %q, got %v", c.in, c.want, c.key, got)
		}
	}
}

func TestParse_LikeTermsCollect(t *testing.T) {
	e := ladder.MustParse("a+_a(+)2a+_a")
	if got := e.Coefficient("a+_a"); got != 3 {
		t.Errorf("duplicate terms should sum, want 3, got %v", got)
	}
	if e.Len() != 1 {
		t.Errorf("want 1 term, got %d", e.Len())
	}
}

func TestParse_BadCoefficient(t *testing.T) {
	_, err := ladder.Parse("2..5a")
	if err == nil {
		t.Fatal("expected error for malformed coefficient")
	}
	var pe *ladder.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want *ParseError, got %T", err)
	}
	if pe.Term != "2..5a" {
		t.Errorf("ParseError should carry the offending term, got %q", pe.Term)
	}
}

func TestParse_EmptyTermSlot(t *testing.T) {
	if _, err := ladder.Parse("a+(+)"); err == nil {
		t.Error("expected error for empty term after (+)")
	}
	if _, err := ladder.Parse("(+)a"); err == nil {
		t.Error("expected error for empty term before (+)")
	}
}

func TestParse_ReservedLetterAsMode(t *testing.T) {
	_, err := ladder.Parse("a_j")
	if err == nil {
		t.Fatal("expected error for reserved letter used as a mode")
	}
	if !strings.Contains(err.Error(), "reserved") {
		t.Errorf("error should mention the reserved letter, got: %v", err)
	}
}

func TestParse_InvalidOperatorToken(t *testing.T) {
	for _, in := range []string{"2ab", "a_b2", "a__b", "a+__"} {
		if _, err := ladder.Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error for invalid operator token", in)
		}
	}
}

// ============================================================
// Mode registry tests
// ============================================================

func TestModes_SortedDistinct(t *testing.T) {
	e := ladder.MustParse("z+_z(+)a+_a(+)b(+)1")
	if got := string(e.Modes()); got != "abz" {
		t.Errorf("want modes abz, got %s", got)
	}
}

func TestModes_ConstantOnly(t *testing.T) {
	e := ladder.MustParse("3+4j")
	if len(e.Modes()) != 0 {
		t.Errorf("constant expression should have no modes, got %q", string(e.Modes()))
	}
}

// ============================================================
// Accessor tests
// ============================================================

func TestCoefficient_AbsentIsZero(t *testing.T) {
	e := ladder.MustParse("a+_a")
	if got := e.Coefficient("b+_b"); got != 0 {
		t.Errorf("absent key should read as 0, got %v", got)
	}
}

func TestCountOrder(t *testing.T) {
	if got := ladder.CountOrder('a', "a+_a_b+_b"); got != 2 {
		t.Errorf("want order 2 for a, got %d", got)
	}
	if got := ladder.CountOrder('b', "a+_a"); got != 0 {
		t.Errorf("want order 0 for b, got %d", got)
	}
}

func TestNonzeroTerms_DropsCancelled(t *testing.T) {
	sum := ladder.MustParse("a+(+)b").Add(ladder.MustParse("-1a+"))
	nz := sum.NonzeroTerms()
	if len(nz) != 1 {
		t.Fatalf("want 1 nonzero term, got %d: %v", len(nz), nz)
	}
	if nz["b"] != 1 {
		t.Errorf("want b: 1, got %v", nz["b"])
	}
	// The full term map still carries the cancelled entry.
	if sum.Len() != 2 {
		t.Errorf("want 2 stored terms, got %d", sum.Len())
	}
}

func TestString_Deterministic(t *testing.T) {
	e := ladder.MustParse("b+_b(+)2a+_a(+)1")
	want := "1(+)2a+_a(+)b+_b"
	for i := 0; i < 10; i++ {
		if got := e.String(); got != want {
			t.Fatalf("iteration %d: want %q, got %q", i, want, got)
		}
	}
}

func TestFormatCoefficient(t *testing.T) {
	cases := []struct {
		in   complex128
		want string
	}{
		{2, "2"},
		{-1.5, "-1.5"},
		{3 + 4i, "3+4j"},
		{1i, "1j"},
		{2 - 1i, "2-1j"},
	}
	for _, c := range cases {
		if got := ladder.FormatCoefficient(c.in); got != c.want {
			t.Errorf("FormatCoefficient(%v): want %q, got %q", c.in, c.want, got)
		}
	}
}
