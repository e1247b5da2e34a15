package ladder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qctools/ladder"
)

func TestCompare_Equal(t *testing.T) {
	a := ladder.MustParse("2a+_a(+)1")
	b := ladder.MustParse("a+_a(+)1(+)a+_a")
	res := ladder.Compare(a, b, 1e-9)
	assert.True(t, res.Equal)
	assert.Empty(t, res.Diffs)
}

func TestCompare_WithinTolerance(t *testing.T) {
	a := ladder.MustParse("1a+_a")
	b := a.ScalarMultiply(complex(1+1e-12, 0))
	res := ladder.Compare(a, b, 1e-9)
	assert.True(t, res.Equal)
}

func TestCompare_BeyondTolerance(t *testing.T) {
	a := ladder.MustParse("a+_a")
	b := ladder.MustParse("1.5a+_a")
	res := ladder.Compare(a, b, 1e-9)
	require.False(t, res.Equal)
	require.Len(t, res.Diffs, 1)
	assert.Contains(t, res.Diffs[0], "a+_a")
	assert.Contains(t, res.Diffs[0], "values differ")
}

func TestCompare_OneSidedKeys(t *testing.T) {
	a := ladder.MustParse("a+_a(+)b+_b")
	b := ladder.MustParse("a+_a(+)c")
	res := ladder.Compare(a, b, 1e-9)
	require.False(t, res.Equal)
	require.Len(t, res.Diffs, 2)
	assert.Contains(t, res.Diffs[0], `"b+_b" in first`)
	assert.Contains(t, res.Diffs[1], `"c" in second`)
}

func TestCompare_ComplexCoefficients(t *testing.T) {
	a := ladder.MustParse("3+4ja")
	b := ladder.MustParse("3+4.000000001ja")
	assert.True(t, ladder.Compare(a, b, 1e-6).Equal)
	assert.False(t, ladder.Compare(a, b, 1e-12).Equal)
}

// ============================================================
// Kerr coefficients
// ============================================================

func TestKerrKeys(t *testing.T) {
	assert.Equal(t, "a+_a+_a_a", ladder.SelfKerrKey('a'))
	assert.Equal(t, "a+_a_b+_b", ladder.CrossKerrKey('a', 'b'))
	// Mode order is normalized.
	assert.Equal(t, "a+_a_b+_b", ladder.CrossKerrKey('b', 'a'))
}

func TestSelfKerr_FromQuarticExpansion(t *testing.T) {
	// (a†a)² = a†a†aa + a†a: self-Kerr coefficient 1
	h := ladder.MustParse("a+_a").Power(2)
	assert.Equal(t, complex128(1), h.SelfKerr('a'))
	assert.Equal(t, complex128(0), h.SelfKerr('b'))
}

func TestCrossKerr_FromProduct(t *testing.T) {
	h := ladder.MustParse("a+_a").Multiply(ladder.MustParse("b+_b")).ScalarMultiply(2)
	assert.Equal(t, complex128(2), h.CrossKerr('a', 'b'))
	assert.Equal(t, complex128(2), h.CrossKerr('b', 'a'))
}

func TestKerrReport(t *testing.T) {
	// (a†a + b†b)² carries both self-Kerr terms and twice the cross-Kerr.
	h := ladder.MustParse("a+_a(+)b+_b").Power(2)
	report := h.KerrReport()
	require.Len(t, report, 3) // two self entries, one cross entry

	byLabel := map[string]complex128{}
	for _, row := range report {
		byLabel[row.Label] = row.Value
	}
	assert.Equal(t, complex128(1), byLabel["a self-Kerr"])
	assert.Equal(t, complex128(1), byLabel["b self-Kerr"])
	assert.Equal(t, complex128(2), byLabel["a-b cross-Kerr"])
}
