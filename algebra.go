package ladder

import (
	"sort"

	"go.uber.org/zap"
)

// debugLog traces term-by-term expansion during Multiply. Nop unless enabled
// via SetDebugLogger.
var debugLog = zap.NewNop()

// SetDebugLogger installs a logger for multiplication tracing. Passing nil
// restores the nop logger.
func SetDebugLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	debugLog = l
}

// ============================================================
// Term algebra
// ============================================================

// Add returns the key-wise sum of e and other. Coefficients on shared keys
// add; entries that cancel to zero are kept.
func (e *Expression) Add(other *Expression) *Expression {
	result := newExpression()
	for k, v := range e.terms {
		result.terms[k] = v
	}
	mergeInto(result.terms, other.terms)
	result.modes = findModes(result.terms)
	return result
}

// ScalarMultiply returns a copy of e with every coefficient multiplied by s.
// Keys and mode set are preserved, including any resulting zero entries.
func (e *Expression) ScalarMultiply(s complex128) *Expression {
	result := newExpression()
	for k, v := range e.terms {
		result.terms[k] = v * s
	}
	result.modes = e.Modes()
	return result
}

// Multiply returns the operator product e · other (other on the right; the
// product does not commute). Every term pair is expanded: the concatenated
// term is regrouped by mode, each single-mode run is rewritten into normal
// order, the per-mode results are recombined, and like terms are collected.
func (e *Expression) Multiply(other *Expression) *Expression {
	result := newExpression()
	result.modes = unionModes(e.modes, other.modes)

	for k1, c1 := range e.terms {
		for k2, c2 := range other.terms {
			if k1 == "" && k2 == "" {
				result.terms[""] += c1 * c2
				continue
			}
			debugLog.Debug("multiply term pair",
				zap.String("term1", k1), zap.String("term2", k2))

			ops1, _ := parseOps(k1) // keys are canonical; cannot fail
			ops2, _ := parseOps(k2)
			combined := organize(append(append(make([]Op, 0, len(ops1)+len(ops2)), ops1...), ops2...))

			var expanded map[string]complex128
			for _, run := range splitModes(combined) {
				reduced := normalOrder(run[0].Mode, run, 1)
				if expanded == nil {
					expanded = reduced
				} else {
					expanded = crossMerge(expanded, reduced)
				}
			}

			overall := c1 * c2
			for k, v := range expanded {
				result.terms[k] += v * overall
			}
		}
	}
	return result
}

// Power returns e multiplied by itself n times. Exponents of 1 or less return
// a copy of e, matching repeated right-multiplication n-1 times.
func (e *Expression) Power(n int) *Expression {
	result := e.clone()
	for i := 1; i < n; i++ {
		result = result.Multiply(e)
	}
	return result
}

func (e *Expression) clone() *Expression {
	result := newExpression()
	for k, v := range e.terms {
		result.terms[k] = v
	}
	result.modes = e.Modes()
	return result
}

func unionModes(a, b []rune) []rune {
	seen := map[rune]bool{}
	for _, m := range a {
		seen[m] = true
	}
	for _, m := range b {
		seen[m] = true
	}
	out := make([]rune, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
