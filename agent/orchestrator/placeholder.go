package orchestrator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
)

// Placeholders embed a restricted path expression inside a string
// argument, e.g. "${tool_results[0].result.items[0].sku}". The grammar is
// index and field access only; the path is parsed locally and never
// handed to an evaluator that could execute planner-controlled code.

var placeholderPattern = regexp.MustCompile(`\$\{([^}]*)\}`)

// resolveArgs rewrites every placeholder in args against the tool results
// accumulated so far in this plan execution. Any unresolvable path is an
// error for the whole call.
func resolveArgs(args map[string]any, results []contractx.ToolResult) (map[string]any, error) {
	if len(args) == 0 {
		return map[string]any{}, nil
	}
	resolved := make(map[string]any, len(args))
	for key, val := range args {
		out, err := resolveValue(val, results)
		if err != nil {
			return nil, fmt.Errorf("arg %s: %w", key, err)
		}
		resolved[key] = out
	}
	return resolved, nil
}

func resolveValue(val any, results []contractx.ToolResult) (any, error) {
	switch v := val.(type) {
	case string:
		return resolveString(v, results)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			r, err := resolveValue(inner, results)
			if err != nil {
				return nil, err
			}
			out[key] = r
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			r, err := resolveValue(inner, results)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return val, nil
	}
}

// resolveString substitutes placeholders in one string. A string that is
// exactly one placeholder resolves to the referenced value with its type
// preserved; placeholders embedded in larger text are stringified.
func resolveString(s string, results []contractx.ToolResult) (any, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(s) {
		return evalPath(s[matches[0][2]:matches[0][3]], results)
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		val, err := evalPath(s[m[2]:m[3]], results)
		if err != nil {
			return nil, err
		}
		b.WriteString(stringify(val))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

func stringify(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}

// evalPath parses and walks one path expression. The namespace contains
// only the results accumulated so far, so a reference at or beyond the
// current position is out of range by construction.
func evalPath(expr string, results []contractx.ToolResult) (any, error) {
	p := &pathParser{input: strings.TrimSpace(expr)}

	root, err := p.ident()
	if err != nil {
		return nil, err
	}
	if root != "tool_results" {
		return nil, fmt.Errorf("unknown placeholder root %q", root)
	}

	idx, err := p.index()
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(results) {
		return nil, fmt.Errorf("tool_results[%d] is not available (have %d)", idx, len(results))
	}

	current := resultNamespace(results[idx])
	for p.hasNext() {
		switch {
		case p.peek() == '.':
			p.pos++
			field, err := p.ident()
			if err != nil {
				return nil, err
			}
			current, err = fieldAccess(current, field)
			if err != nil {
				return nil, err
			}
		case p.peek() == '[':
			i, err := p.index()
			if err != nil {
				return nil, err
			}
			current, err = indexAccess(current, i)
			if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", p.peek(), p.pos)
		}
	}
	return current, nil
}

// resultNamespace exposes a ToolResult for path navigation. A failed
// result has no "result" field, so referencing it is a resolution error
// rather than a silent nil.
func resultNamespace(tr contractx.ToolResult) any {
	ns := map[string]any{
		"tool": tr.Tool,
	}
	if len(tr.Args) > 0 {
		ns["args"] = tr.Args
	}
	if tr.Error != "" {
		ns["error"] = tr.Error
	} else {
		ns["result"] = mapToAny(tr.Result)
	}
	return ns
}

func mapToAny(m map[string]any) any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func fieldAccess(val any, field string) (any, error) {
	m, ok := val.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("cannot access field %q on %T", field, val)
	}
	inner, ok := m[field]
	if !ok {
		return nil, fmt.Errorf("field %q not found", field)
	}
	return inner, nil
}

func indexAccess(val any, i int) (any, error) {
	list, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("cannot index %T", val)
	}
	if i < 0 || i >= len(list) {
		return nil, fmt.Errorf("index %d out of range (len %d)", i, len(list))
	}
	return list[i], nil
}

type pathParser struct {
	input string
	pos   int
}

func (p *pathParser) hasNext() bool {
	return p.pos < len(p.input)
}

func (p *pathParser) peek() byte {
	return p.input[p.pos]
}

func (p *pathParser) ident() (string, error) {
	start := p.pos
	for p.hasNext() {
		ch := p.peek()
		if ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9' && p.pos > start) {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", fmt.Errorf("expected identifier at position %d", start)
	}
	return p.input[start:p.pos], nil
}

func (p *pathParser) index() (int, error) {
	if !p.hasNext() || p.peek() != '[' {
		return 0, fmt.Errorf("expected '[' at position %d", p.pos)
	}
	p.pos++

	start := p.pos
	for p.hasNext() && p.peek() >= '0' && p.peek() <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, fmt.Errorf("expected index at position %d", start)
	}
	raw := p.input[start:p.pos]

	if !p.hasNext() || p.peek() != ']' {
		return 0, fmt.Errorf("missing ']' at position %d", p.pos)
	}
	p.pos++

	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", raw, err)
	}
	return idx, nil
}
