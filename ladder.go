// Package ladder is a symbolic normal-ordering engine for multimode
// noncommutative bosonic ladder (creation/annihilation) operators.
//
// Design goals:
//   - Canonical term keys and deterministic output
//   - Normal (Wick) ordering via the single identity [a, a†] = 1
//   - Exact complex coefficients, no silent zero-pruning
//   - Embeddable in Go services, CLI tools, and agent backends
//
// An Expression maps each operator product ("term") to its complex
// coefficient. The text grammar writes creation as "a+", annihilation as "a",
// multiplication as "_", addition as "(+)", and complex coefficients in front
// of the operators with "j" as the imaginary unit:
//
//	2a+_a(+)b+_b(+)3+4j
//
// Multiplying Expressions expands the product term by term, regroups each
// combined term by mode (operators of different modes commute), rewrites each
// single-mode run into normal order, and collects like terms.
package ladder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ImagUnit is the letter reserved for the imaginary unit in coefficient
// literals. It is not a valid mode letter.
const ImagUnit = 'j'

// opSep joins operator tokens inside a term key; termSep joins terms in the
// text grammar.
const (
	opSep   = "_"
	termSep = "(+)"
)

// ============================================================
// Op and term keys
// ============================================================

// Op is a single ladder operator: a mode letter plus a creation flag.
// {Mode: 'a', Dagger: true} is a†, written "a+"; {Mode: 'a'} is a.
type Op struct {
	Mode   rune
	Dagger bool
}

// Token returns the grammar spelling of the operator.
func (o Op) Token() string {
	if o.Dagger {
		return string(o.Mode) + "+"
	}
	return string(o.Mode)
}

// keyOf serializes an operator sequence into its canonical term key.
// The empty sequence is the identity term with key "".
func keyOf(ops []Op) string {
	if len(ops) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, op := range ops {
		if i > 0 {
			sb.WriteString(opSep)
		}
		sb.WriteString(op.Token())
	}
	return sb.String()
}

// keyJoin concatenates two term keys, treating "" as the identity.
func keyJoin(k1, k2 string) string {
	switch {
	case k1 == "":
		return k2
	case k2 == "":
		return k1
	default:
		return k1 + opSep + k2
	}
}

// parseOps parses a term key ("a+_a_b") into its operator sequence.
func parseOps(key string) ([]Op, error) {
	if key == "" {
		return nil, nil
	}
	tokens := strings.Split(key, opSep)
	ops := make([]Op, 0, len(tokens))
	for _, tok := range tokens {
		op, err := parseOp(tok)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func parseOp(tok string) (Op, error) {
	runes := []rune(tok)
	dagger := false
	if n := len(runes); n > 0 && runes[n-1] == '+' {
		dagger = true
		runes = runes[:n-1]
	}
	if len(runes) != 1 {
		return Op{}, fmt.Errorf("operator token %q must be a single letter with optional trailing '+'", tok)
	}
	mode := runes[0]
	if !unicode.IsLetter(mode) {
		return Op{}, fmt.Errorf("operator token %q: mode %q is not a letter", tok, mode)
	}
	if mode == ImagUnit {
		return Op{}, fmt.Errorf("operator token %q uses the reserved imaginary-unit letter %q", tok, ImagUnit)
	}
	return Op{Mode: mode, Dagger: dagger}, nil
}

// ============================================================
// Expression
// ============================================================

// Expression is a sum of operator products: a mapping from canonical term key
// to complex coefficient. The key "" holds the constant (identity) part; an
// empty map is the zero expression. A coefficient that sums to zero stays in
// the map — entries are never pruned.
//
// Expressions are immutable once returned; every operation builds a fresh one.
type Expression struct {
	terms map[string]complex128
	modes []rune
}

func newExpression() *Expression {
	return &Expression{terms: map[string]complex128{}}
}

// Zero returns the zero expression (empty term map).
func Zero() *Expression { return newExpression() }

// One returns the constant-1 expression.
func One() *Expression { return Constant(1) }

// Constant returns the expression holding a single constant term.
func Constant(c complex128) *Expression {
	e := newExpression()
	e.terms[""] = c
	return e
}

// ParseError reports a term of the input text that could not be parsed.
type ParseError struct {
	Term string // the offending term, as written
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ladder: parse term %q: %s: %v", e.Term, e.Msg, e.Err)
	}
	return fmt.Sprintf("ladder: parse term %q: %s", e.Term, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse builds an Expression from the text grammar. The empty string is the
// zero expression. Each term is an optional complex coefficient literal
// followed by '_'-joined operator tokens; terms are joined by "(+)".
func Parse(src string) (*Expression, error) {
	e := newExpression()
	if src == "" {
		return e, nil
	}
	for _, term := range strings.Split(src, termSep) {
		if term == "" {
			return nil, &ParseError{Term: term, Msg: "empty term"}
		}
		idx := firstModeIndex(term)
		coeff := complex128(1)
		body := term
		if idx < 0 {
			// No operator letters: the whole term is a constant.
			c, err := parseCoefficient(term)
			if err != nil {
				return nil, &ParseError{Term: term, Msg: "invalid coefficient", Err: err}
			}
			coeff, body = c, ""
		} else if idx > 0 {
			c, err := parseCoefficient(term[:idx])
			if err != nil {
				return nil, &ParseError{Term: term, Msg: "invalid coefficient", Err: err}
			}
			coeff, body = c, term[idx:]
		}
		ops, err := parseOps(body)
		if err != nil {
			return nil, &ParseError{Term: term, Msg: "invalid operators", Err: err}
		}
		e.terms[keyOf(ops)] += coeff
	}
	e.modes = findModes(e.terms)
	return e, nil
}

// MustParse is Parse for expressions known to be well formed; it panics on
// error. Intended for tests and examples.
func MustParse(src string) *Expression {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// firstModeIndex returns the byte index of the first letter that is not the
// reserved imaginary-unit letter, or -1 if there is none. Everything before
// that index is the coefficient literal.
func firstModeIndex(term string) int {
	for i, r := range term {
		if unicode.IsLetter(r) && r != ImagUnit {
			return i
		}
	}
	return -1
}

// parseCoefficient parses a complex literal written with ImagUnit as the
// imaginary marker ("2", "-1.5", "j", "3+4j", "4.j").
func parseCoefficient(lit string) (complex128, error) {
	s := strings.ReplaceAll(lit, string(ImagUnit), "i")
	// strconv wants an explicit mantissa on the imaginary part: j -> 1i.
	if strings.HasSuffix(s, "i") {
		head := s[:len(s)-1]
		if head == "" || strings.HasSuffix(head, "+") || strings.HasSuffix(head, "-") {
			s = head + "1i"
		}
	}
	c, err := strconv.ParseComplex(s, 128)
	if err != nil {
		return 0, fmt.Errorf("complex literal %q: %w", lit, err)
	}
	return c, nil
}

// ============================================================
// Mode registry
// ============================================================

// findModes collects the distinct mode letters across all term keys,
// ascending. The reserved imaginary-unit letter never appears in a valid key
// but is excluded defensively, matching the parse rule.
func findModes(terms map[string]complex128) []rune {
	seen := map[rune]bool{}
	for key := range terms {
		for _, r := range key {
			if unicode.IsLetter(r) && r != ImagUnit {
				seen[r] = true
			}
		}
	}
	modes := make([]rune, 0, len(seen))
	for m := range seen {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

// Modes returns the sorted mode letters appearing in the expression.
func (e *Expression) Modes() []rune {
	out := make([]rune, len(e.modes))
	copy(out, e.modes)
	return out
}

// ============================================================
// Accessors
// ============================================================

// Coefficient returns the coefficient of the given term key, or 0 if absent.
// The constant part is Coefficient("").
func (e *Expression) Coefficient(key string) complex128 { return e.terms[key] }

// Len reports the number of stored terms, zero entries included.
func (e *Expression) Len() int { return len(e.terms) }

// Keys returns all term keys in sorted order.
func (e *Expression) Keys() []string {
	keys := make([]string, 0, len(e.terms))
	for k := range e.terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Terms returns a copy of the term map.
func (e *Expression) Terms() map[string]complex128 {
	out := make(map[string]complex128, len(e.terms))
	for k, v := range e.terms {
		out[k] = v
	}
	return out
}

// NonzeroTerms returns a copy of the term map without zero entries.
func (e *Expression) NonzeroTerms() map[string]complex128 {
	out := make(map[string]complex128, len(e.terms))
	for k, v := range e.terms {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// CountOrder counts the occurrences of a mode in a term key, creation and
// annihilation combined.
func CountOrder(mode rune, key string) int {
	return strings.Count(key, string(mode))
}

// String renders the expression in the input grammar with terms sorted by
// key, the zero expression as "0".
func (e *Expression) String() string {
	if len(e.terms) == 0 {
		return "0"
	}
	keys := e.Keys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, formatTerm(k, e.terms[k]))
	}
	return strings.Join(parts, termSep)
}

func formatTerm(key string, c complex128) string {
	if key == "" {
		return FormatCoefficient(c)
	}
	if c == 1 {
		return key
	}
	return FormatCoefficient(c) + key
}

// FormatCoefficient renders a complex coefficient in the grammar's notation
// (ImagUnit marks the imaginary part).
func FormatCoefficient(c complex128) string {
	re, im := real(c), imag(c)
	switch {
	case im == 0:
		return strconv.FormatFloat(re, 'g', -1, 64)
	case re == 0:
		return strconv.FormatFloat(im, 'g', -1, 64) + string(ImagUnit)
	default:
		s := strconv.FormatFloat(re, 'g', -1, 64)
		if im > 0 {
			s += "+"
		}
		return s + strconv.FormatFloat(im, 'g', -1, 64) + string(ImagUnit)
	}
}
