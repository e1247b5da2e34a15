package ladder

import "sort"

// ============================================================
// Hilbert-space organization
// ============================================================

// organize regroups a multi-mode operator sequence by ascending mode letter,
// preserving the relative order of operators within each mode. Operators of
// different modes commute, so only the cross-mode interleaving moves; the
// result is generally not yet normal ordered within a mode.
func organize(ops []Op) []Op {
	modes := modesOf(ops)
	out := make([]Op, 0, len(ops))
	for _, mode := range modes {
		for _, op := range ops {
			if op.Mode == mode {
				out = append(out, op)
			}
		}
	}
	return out
}

// modesOf returns the distinct modes of an operator sequence, ascending.
func modesOf(ops []Op) []rune {
	seen := map[rune]bool{}
	modes := []rune{}
	for _, op := range ops {
		if !seen[op.Mode] {
			seen[op.Mode] = true
			modes = append(modes, op.Mode)
		}
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

// splitModes partitions an organized operator sequence into one contiguous
// run per mode, ascending. Input must already be grouped by mode.
func splitModes(ops []Op) [][]Op {
	var runs [][]Op
	start := 0
	for i := 1; i <= len(ops); i++ {
		if i == len(ops) || ops[i].Mode != ops[start].Mode {
			runs = append(runs, ops[start:i])
			start = i
		}
	}
	return runs
}

// ============================================================
// Normal-order reducer
// ============================================================

// normalOrder rewrites a single-mode operator sequence into a weighted sum of
// normal-ordered sequences by repeatedly applying [a, a†] = 1: the leftmost
// adjacent pair (a, a†) becomes (a†, a) plus the pair dropped entirely.
//
// Each recursion either shortens the sequence by two or replaces the leftmost
// inverted pair in place with an ordered one, so the search index makes
// monotonic progress and the rewrite terminates.
func normalOrder(mode rune, ops []Op, coeff complex128) map[string]complex128 {
	idx := -1
	for i := 0; i+1 < len(ops); i++ {
		if ops[i].Mode == mode && !ops[i].Dagger &&
			ops[i+1].Mode == mode && ops[i+1].Dagger {
			idx = i
			break
		}
	}
	if idx < 0 {
		return map[string]complex128{keyOf(ops): coeff}
	}

	// a a† -> a† a + 1
	withN := make([]Op, 0, len(ops))
	withN = append(withN, ops[:idx]...)
	withN = append(withN, Op{Mode: mode, Dagger: true}, Op{Mode: mode})
	withN = append(withN, ops[idx+2:]...)

	dropped := make([]Op, 0, len(ops)-2)
	dropped = append(dropped, ops[:idx]...)
	dropped = append(dropped, ops[idx+2:]...)

	result := normalOrder(mode, withN, coeff)
	mergeInto(result, normalOrder(mode, dropped, coeff))
	return result
}

// mergeInto adds src's coefficients into dst key-wise. Safe to call when src
// and dst are the same map: the source entries are snapshotted first.
func mergeInto(dst, src map[string]complex128) {
	type entry struct {
		key string
		val complex128
	}
	entries := make([]entry, 0, len(src))
	for k, v := range src {
		entries = append(entries, entry{k, v})
	}
	for _, e := range entries {
		dst[e.key] += e.val
	}
}

// crossMerge multiplies two single-mode reduced mappings: keys concatenate
// (the left mapping's mode precedes the right's), coefficients multiply, and
// collisions sum. Token order across modes is already fixed by organize.
func crossMerge(m1, m2 map[string]complex128) map[string]complex128 {
	out := make(map[string]complex128, len(m1)*len(m2))
	for k1, v1 := range m1 {
		for k2, v2 := range m2 {
			out[keyJoin(k1, k2)] += v1 * v2
		}
	}
	return out
}

// NormalOrder rewrites a single term key — possibly spanning several modes —
// into its normal-ordered Expression with coefficient 1. The term is
// organized by mode, each single-mode run is reduced independently, and the
// per-mode results are recombined.
func NormalOrder(term string) (*Expression, error) {
	ops, err := parseOps(term)
	if err != nil {
		return nil, &ParseError{Term: term, Msg: "invalid operators", Err: err}
	}
	e := newExpression()
	if len(ops) == 0 {
		e.terms[""] = 1
		return e, nil
	}
	var acc map[string]complex128
	for _, run := range splitModes(organize(ops)) {
		reduced := normalOrder(run[0].Mode, run, 1)
		if acc == nil {
			acc = reduced
		} else {
			acc = crossMerge(acc, reduced)
		}
	}
	e.terms = acc
	e.modes = findModes(e.terms)
	return e, nil
}
