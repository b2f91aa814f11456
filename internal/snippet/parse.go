// Package snippet turns model-generated plot scripts into rendered figures.
//
// Generated code is a small directive language, one statement per line:
//
//	bins = 40
//	histplot(x="Eng_uBatt", hue="Vehicle", weights="duration", alpha=1.0)
//	subtitle("Total duration per voltage bin across vehicles")
//
// A statement is either an assignment `name = value` or a call
// `name(arg, key=value, ...)` with string, number, boolean or identifier
// arguments. Anything else is rejected line by line during sanitization and
// at call time during execution.
package snippet

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type ValueKind int

const (
	ValString ValueKind = iota
	ValNumber
	ValBool
	ValIdent
)

// Value is a literal or identifier reference appearing in a statement.
type Value struct {
	Kind  ValueKind
	Str   string
	Num   float64
	Bool  bool
	Ident string
}

// Arg is one call argument, keyword-style when Key is non-empty.
type Arg struct {
	Key string
	Val Value
}

// Call is a single capability invocation.
type Call struct {
	Name string
	Args []Arg
}

// Statement is one parsed line: an assignment or a call.
type Statement struct {
	Assign string // target name when this is an assignment
	Value  Value  // assigned value
	Call   *Call  // non-nil for calls
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		l.pos++
	}
}

func (l *lexer) eof() bool {
	l.skipSpace()
	return l.pos >= len(l.src)
}

func (l *lexer) peek() byte {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) ident() (string, error) {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.src) {
		c := rune(l.src[l.pos])
		if unicode.IsLetter(c) || c == '_' || (l.pos > start && (unicode.IsDigit(c) || c == '.')) {
			l.pos++
			continue
		}
		break
	}
	if l.pos == start {
		return "", fmt.Errorf("expected identifier at offset %d", start)
	}
	return l.src[start:l.pos], nil
}

func (l *lexer) stringLit(quote byte) (string, error) {
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			b.WriteByte(l.src[l.pos])
			l.pos++
			continue
		}
		if c == quote {
			l.pos++
			return b.String(), nil
		}
		b.WriteByte(c)
		l.pos++
	}
	return "", fmt.Errorf("unterminated string")
}

func (l *lexer) value() (Value, error) {
	c := l.peek()
	switch {
	case c == '"' || c == '\'':
		s, err := l.stringLit(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValString, Str: s}, nil
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		start := l.pos
		l.pos++
		for l.pos < len(l.src) {
			ch := l.src[l.pos]
			if (ch >= '0' && ch <= '9') || ch == '.' || ch == 'e' || ch == 'E' ||
				((ch == '-' || ch == '+') && (l.src[l.pos-1] == 'e' || l.src[l.pos-1] == 'E')) {
				l.pos++
				continue
			}
			break
		}
		n, err := strconv.ParseFloat(l.src[start:l.pos], 64)
		if err != nil {
			return Value{}, fmt.Errorf("bad number %q", l.src[start:l.pos])
		}
		return Value{Kind: ValNumber, Num: n}, nil
	default:
		id, err := l.ident()
		if err != nil {
			return Value{}, err
		}
		switch strings.ToLower(id) {
		case "true":
			return Value{Kind: ValBool, Bool: true}, nil
		case "false":
			return Value{Kind: ValBool, Bool: false}, nil
		case "none", "null", "auto":
			return Value{Kind: ValIdent, Ident: strings.ToLower(id)}, nil
		}
		return Value{Kind: ValIdent, Ident: id}, nil
	}
}

func (l *lexer) args() ([]Arg, error) {
	var args []Arg
	if l.peek() == ')' {
		l.pos++
		return args, nil
	}
	for {
		var a Arg
		// Keyword form: ident '=' value. Need lookahead past the identifier.
		save := l.pos
		if c := l.peek(); c != '"' && c != '\'' && !(c == '-' || c == '+' || (c >= '0' && c <= '9')) {
			id, err := l.ident()
			if err != nil {
				return nil, err
			}
			if l.peek() == '=' {
				l.pos++
				v, err := l.value()
				if err != nil {
					return nil, err
				}
				a = Arg{Key: id, Val: v}
			} else {
				l.pos = save
			}
		}
		if a.Key == "" {
			v, err := l.value()
			if err != nil {
				return nil, err
			}
			a = Arg{Val: v}
		}
		args = append(args, a)
		switch l.peek() {
		case ',':
			l.pos++
		case ')':
			l.pos++
			return args, nil
		default:
			return nil, fmt.Errorf("expected ',' or ')' at offset %d", l.pos)
		}
	}
}

// ParseLine parses one source line. Blank lines and `#` comments yield a nil
// statement with no error; they count as valid but carry nothing to run.
func ParseLine(line string) (*Statement, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, nil
	}
	l := &lexer{src: trimmed}
	name, err := l.ident()
	if err != nil {
		return nil, err
	}
	switch l.peek() {
	case '(':
		l.pos++
		args, err := l.args()
		if err != nil {
			return nil, err
		}
		if !l.eof() {
			return nil, fmt.Errorf("trailing input after call")
		}
		return &Statement{Call: &Call{Name: name, Args: args}}, nil
	case '=':
		l.pos++
		v, err := l.value()
		if err != nil {
			return nil, err
		}
		if !l.eof() {
			return nil, fmt.Errorf("trailing input after assignment")
		}
		return &Statement{Assign: name, Value: v}, nil
	default:
		return nil, fmt.Errorf("expected call or assignment")
	}
}

// Arg lookup helpers used by the executor.

func (c *Call) kwarg(key string) (Value, bool) {
	for _, a := range c.Args {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return Value{}, false
}

func (c *Call) positional(i int) (Value, bool) {
	n := 0
	for _, a := range c.Args {
		if a.Key == "" {
			if n == i {
				return a.Val, true
			}
			n++
		}
	}
	return Value{}, false
}
