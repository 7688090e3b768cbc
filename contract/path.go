package contract

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Path is a parsed JSON field path such as "data.id" or "data[0].name". Object fields are
// separated by dots and array indexes are written in brackets. A leading "$" or "$." is
// allowed and ignored; "$" by itself refers to the whole document.
type Path struct {
	expr     string
	segments []pathSegment
}

type pathSegment struct {
	key     string
	index   int
	isIndex bool
}

func (s pathSegment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.key
}

// PathError is returned by Path.Resolve when a segment of the path does not exist in the
// document. Segment is the first segment that could not be resolved, and Parent is the part
// of the path before it.
type PathError struct {
	Path    string
	Parent  string
	Segment string
	Reason  string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q: %s", e.Path, e.Reason)
}

// ParsePath parses a path expression.
func ParsePath(expr string) (Path, error) {
	s := expr
	if strings.HasPrefix(s, "$") {
		s = strings.TrimPrefix(s[1:], ".")
	} else if s == "" {
		return Path{}, fmt.Errorf("empty JSON path")
	}

	p := Path{expr: expr}
	expectKey := true
	for i := 0; i < len(s); {
		switch s[i] {
		case '.':
			if expectKey {
				return Path{}, fmt.Errorf("invalid JSON path %q: empty field name at offset %d", expr, i)
			}
			expectKey = true
			i++
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return Path{}, fmt.Errorf("invalid JSON path %q: unclosed bracket at offset %d", expr, i)
			}
			n, err := strconv.Atoi(s[i+1 : i+end])
			if err != nil || n < 0 {
				return Path{}, fmt.Errorf("invalid JSON path %q: %q is not an array index", expr, s[i+1:i+end])
			}
			p.segments = append(p.segments, pathSegment{index: n, isIndex: true})
			expectKey = false
			i += end + 1
		case ']':
			return Path{}, fmt.Errorf("invalid JSON path %q: unexpected ']' at offset %d", expr, i)
		default:
			if !expectKey {
				return Path{}, fmt.Errorf("invalid JSON path %q: missing '.' before offset %d", expr, i)
			}
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' && s[j] != ']' {
				j++
			}
			p.segments = append(p.segments, pathSegment{key: s[i:j]})
			expectKey = false
			i = j
		}
	}
	if expectKey && len(s) > 0 {
		return Path{}, fmt.Errorf("invalid JSON path %q: ends with '.'", expr)
	}
	return p, nil
}

func (p Path) String() string { return p.expr }

// Resolve finds the value at the path. If any segment does not exist, or refers into a
// value of the wrong type, it returns a *PathError.
func (p Path) Resolve(doc ldvalue.Value) (ldvalue.Value, error) {
	current := doc
	for i, seg := range p.segments {
		parent := p.prefix(i)
		fail := func(reason string, args ...interface{}) (ldvalue.Value, error) {
			return ldvalue.Null(), &PathError{
				Path:    p.expr,
				Parent:  parent,
				Segment: seg.String(),
				Reason:  fmt.Sprintf(reason, args...),
			}
		}
		if seg.isIndex {
			if current.Type() != ldvalue.ArrayType {
				return fail("cannot get index %s of %s, which is %s", seg, describePath(parent), typeName(current))
			}
			if seg.index >= current.Count() {
				return fail("index %s is out of range for %s (length %d)", seg, describePath(parent), current.Count())
			}
			current = current.GetByIndex(seg.index)
			continue
		}
		if current.Type() != ldvalue.ObjectType {
			return fail("cannot get field %q of %s, which is %s", seg.key, describePath(parent), typeName(current))
		}
		value, ok := current.TryGetByKey(seg.key)
		if !ok {
			return fail("no field %q in %s", seg.key, describePath(parent))
		}
		current = value
	}
	return current, nil
}

func (p Path) prefix(n int) string {
	var b strings.Builder
	for i, seg := range p.segments[:n] {
		if i > 0 && !seg.isIndex {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

func describePath(prefix string) string {
	if prefix == "" {
		return "the response body"
	}
	return strconv.Quote(prefix)
}

func typeName(v ldvalue.Value) string {
	switch v.Type() {
	case ldvalue.NullType:
		return "null"
	case ldvalue.BoolType:
		return "a boolean"
	case ldvalue.NumberType:
		return "a number"
	case ldvalue.StringType:
		return "a string"
	case ldvalue.ArrayType:
		return "an array"
	default:
		return "an object"
	}
}
