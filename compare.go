package ladder

import (
	"fmt"
	"math/cmplx"
	"sort"
)

// ============================================================
// Tolerance comparator
// ============================================================

// CompareResult reports whether two Expressions agree within tolerance,
// with one diagnostic line per discrepancy.
type CompareResult struct {
	Equal bool
	Diffs []string
}

// Compare checks a and b coefficient-wise. A key present in only one operand
// is a discrepancy even when its coefficient is zero: explicit zero entries
// are never pruned, so equal Expressions may still carry different key sets —
// such keys are reported rather than ignored, matching the engine's
// no-pruning contract. Shared keys compare by complex-magnitude closeness
// under the given absolute tolerance.
func Compare(a, b *Expression, tol float64) CompareResult {
	res := CompareResult{Equal: true}

	keys := map[string]bool{}
	for k := range a.terms {
		keys[k] = true
	}
	for k := range b.terms {
		keys[k] = true
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		va, inA := a.terms[k]
		vb, inB := b.terms[k]
		switch {
		case inA && !inB:
			res.Equal = false
			res.Diffs = append(res.Diffs, fmt.Sprintf("key %q in first expression but not in second", k))
		case inB && !inA:
			res.Equal = false
			res.Diffs = append(res.Diffs, fmt.Sprintf("key %q in second expression but not in first", k))
		case !isClose(va, vb, tol):
			res.Equal = false
			res.Diffs = append(res.Diffs,
				fmt.Sprintf("values differ for key %q: %v (first) vs %v (second)", k, va, vb))
		}
	}
	return res
}

// isClose is the complex-magnitude closeness test: |x−y| ≤ tol.
func isClose(x, y complex128, tol float64) bool {
	return cmplx.Abs(x-y) <= tol
}

// ============================================================
// Kerr coefficients
// ============================================================

// SelfKerrKey returns the normal-ordered quartic self-interaction key for a
// mode: "a+_a+_a_a".
func SelfKerrKey(mode rune) string {
	m := string(mode)
	return m + "+" + opSep + m + "+" + opSep + m + opSep + m
}

// CrossKerrKey returns the normal-ordered cross-interaction key for two
// modes, lower letter first: "a+_a_b+_b".
func CrossKerrKey(m1, m2 rune) string {
	if m2 < m1 {
		m1, m2 = m2, m1
	}
	a, b := string(m1), string(m2)
	return a + "+" + opSep + a + opSep + b + "+" + opSep + b
}

// SelfKerr returns the coefficient of the mode's quartic self-Kerr term,
// zero if absent.
func (e *Expression) SelfKerr(mode rune) complex128 {
	return e.Coefficient(SelfKerrKey(mode))
}

// CrossKerr returns the coefficient of the cross-Kerr term between two
// modes, zero if absent.
func (e *Expression) CrossKerr(m1, m2 rune) complex128 {
	return e.Coefficient(CrossKerrKey(m1, m2))
}

// KerrCoefficient is one row of a KerrReport.
type KerrCoefficient struct {
	Label string     `json:"label"`
	Key   string     `json:"key"`
	Value complex128 `json:"-"`
}

// KerrReport lists every self-Kerr and cross-Kerr coefficient over the
// expression's own mode set: one self entry per mode, one cross entry per
// mode pair, absent terms reported as zero.
func (e *Expression) KerrReport() []KerrCoefficient {
	var out []KerrCoefficient
	modes := e.modes
	for _, m := range modes {
		out = append(out, KerrCoefficient{
			Label: fmt.Sprintf("%c self-Kerr", m),
			Key:   SelfKerrKey(m),
			Value: e.SelfKerr(m),
		})
	}
	for i := 0; i < len(modes); i++ {
		for j := i + 1; j < len(modes); j++ {
			out = append(out, KerrCoefficient{
				Label: fmt.Sprintf("%c-%c cross-Kerr", modes[i], modes[j]),
				Key:   CrossKerrKey(modes[i], modes[j]),
				Value: e.CrossKerr(modes[i], modes[j]),
			})
		}
	}
	return out
}
