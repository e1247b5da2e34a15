package ladder

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// JSON serialization
// ============================================================

// exprJSON is the wire form of an Expression: term key -> [re, im].
type exprJSON struct {
	Terms map[string][2]float64 `json:"terms"`
}

func (e *Expression) MarshalJSON() ([]byte, error) {
	out := exprJSON{Terms: make(map[string][2]float64, len(e.terms))}
	for k, v := range e.terms {
		out.Terms[k] = [2]float64{real(v), imag(v)}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the wire form, re-validating every term key through
// the operator grammar.
func (e *Expression) UnmarshalJSON(data []byte) error {
	var in exprJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	terms := make(map[string]complex128, len(in.Terms))
	for k, v := range in.Terms {
		ops, err := parseOps(k)
		if err != nil {
			return &ParseError{Term: k, Msg: "invalid operators", Err: err}
		}
		if canon := keyOf(ops); canon != k {
			return &ParseError{Term: k, Msg: fmt.Sprintf("non-canonical key, want %q", canon)}
		}
		terms[k] = complex(v[0], v[1])
	}
	e.terms = terms
	e.modes = findModes(terms)
	return nil
}

// ============================================================
// Tool call interface
// ============================================================

// ToolRequest is a single tool invocation. Expression params are strings in
// the input grammar.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

// ToolResponse carries the tool result. Result is the structured payload,
// String the grammar rendering where one applies.
type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func errResponse(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

// HandleToolCall dispatches a tool request.
//
// Tools: parse, add, multiply, scalar_multiply, power, normal_order, modes,
// coefficient, kerr, compare.
func HandleToolCall(req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getExpr := func(key string) (*Expression, error) {
		s, err := getString(key)
		if err != nil {
			return nil, err
		}
		return Parse(s)
	}
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		n, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return n, nil
	}
	exprResponse := func(e *Expression) ToolResponse {
		return ToolResponse{Result: e, String: e.String()}
	}

	switch req.Tool {
	case "parse":
		e, err := getExpr("expr")
		if err != nil {
			return errResponse(err)
		}
		return exprResponse(e)

	case "add":
		a, err := getExpr("a")
		if err != nil {
			return errResponse(err)
		}
		b, err := getExpr("b")
		if err != nil {
			return errResponse(err)
		}
		return exprResponse(a.Add(b))

	case "multiply":
		a, err := getExpr("a")
		if err != nil {
			return errResponse(err)
		}
		b, err := getExpr("b")
		if err != nil {
			return errResponse(err)
		}
		return exprResponse(a.Multiply(b))

	case "scalar_multiply":
		e, err := getExpr("expr")
		if err != nil {
			return errResponse(err)
		}
		lit, err := getString("scalar")
		if err != nil {
			return errResponse(err)
		}
		s, err := parseCoefficient(lit)
		if err != nil {
			return errResponse(err)
		}
		return exprResponse(e.ScalarMultiply(s))

	case "power":
		e, err := getExpr("expr")
		if err != nil {
			return errResponse(err)
		}
		n, err := getNumber("n")
		if err != nil {
			return errResponse(err)
		}
		if n < 1 || n != float64(int(n)) {
			return errResponse(fmt.Errorf("param n must be a positive integer, got %v", n))
		}
		return exprResponse(e.Power(int(n)))

	case "normal_order":
		term, err := getString("term")
		if err != nil {
			return errResponse(err)
		}
		e, err := NormalOrder(term)
		if err != nil {
			return errResponse(err)
		}
		return exprResponse(e)

	case "modes":
		e, err := getExpr("expr")
		if err != nil {
			return errResponse(err)
		}
		modes := make([]string, 0, len(e.modes))
		for _, m := range e.Modes() {
			modes = append(modes, string(m))
		}
		return ToolResponse{Result: modes}

	case "coefficient":
		e, err := getExpr("expr")
		if err != nil {
			return errResponse(err)
		}
		term, err := getString("term")
		if err != nil {
			return errResponse(err)
		}
		c := e.Coefficient(term)
		return ToolResponse{
			Result: [2]float64{real(c), imag(c)},
			String: FormatCoefficient(c),
		}

	case "kerr":
		e, err := getExpr("expr")
		if err != nil {
			return errResponse(err)
		}
		type row struct {
			Label string     `json:"label"`
			Key   string     `json:"key"`
			Value [2]float64 `json:"value"`
		}
		rows := []row{}
		for _, kc := range e.KerrReport() {
			rows = append(rows, row{kc.Label, kc.Key, [2]float64{real(kc.Value), imag(kc.Value)}})
		}
		return ToolResponse{Result: rows}

	case "compare":
		a, err := getExpr("a")
		if err != nil {
			return errResponse(err)
		}
		b, err := getExpr("b")
		if err != nil {
			return errResponse(err)
		}
		tol, err := getNumber("tol")
		if err != nil {
			tol = 1e-9
		}
		res := Compare(a, b, tol)
		return ToolResponse{Result: res}
	}
	return errResponse(fmt.Errorf("unknown tool: %s", req.Tool))
}

// ToolSpec returns the JSON tool schema for agent registration.
func ToolSpec() string {
	type param struct {
		Type string `json:"type"`
		Desc string `json:"description"`
	}
	type tool struct {
		Name   string           `json:"name"`
		Desc   string           `json:"description"`
		Params map[string]param `json:"params"`
	}
	exprP := param{Type: "string", Desc: "expression in ladder grammar, e.g. 2a+_a(+)1"}
	termP := param{Type: "string", Desc: "single term key, e.g. a+_a"}
	spec := []tool{
		{Name: "parse", Desc: "parse an expression", Params: map[string]param{"expr": exprP}},
		{Name: "add", Desc: "sum of two expressions", Params: map[string]param{"a": exprP, "b": exprP}},
		{Name: "multiply", Desc: "normal-ordered product a*b", Params: map[string]param{"a": exprP, "b": exprP}},
		{Name: "scalar_multiply", Desc: "scale every coefficient", Params: map[string]param{"expr": exprP, "scalar": {Type: "string", Desc: "complex literal, e.g. 3+4j"}}},
		{Name: "power", Desc: "expr multiplied by itself n times", Params: map[string]param{"expr": exprP, "n": {Type: "number", Desc: "positive integer exponent"}}},
		{Name: "normal_order", Desc: "normal-order a single term", Params: map[string]param{"term": termP}},
		{Name: "modes", Desc: "sorted mode letters", Params: map[string]param{"expr": exprP}},
		{Name: "coefficient", Desc: "coefficient of a term key, zero default", Params: map[string]param{"expr": exprP, "term": termP}},
		{Name: "kerr", Desc: "self- and cross-Kerr coefficients", Params: map[string]param{"expr": exprP}},
		{Name: "compare", Desc: "tolerance comparison with diagnostics", Params: map[string]param{"a": exprP, "b": exprP, "tol": {Type: "number", Desc: "absolute tolerance"}}},
	}
	b, _ := json.MarshalIndent(map[string]interface{}{"tools": spec}, "", "  ")
	return string(b)
}
