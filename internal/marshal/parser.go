package marshal

import (
	"strings"
	"sync"
)

// DefaultCompositeExpression is used for composite columns without their own expression.
const DefaultCompositeExpression = "CompositeType(LongType(reversed=true), AsciiType)"

var defaultParser = NewParser()

// Parse parses a type expression with the package level parser.
func Parse(expr string) (AbstractType, error) {
	return defaultParser.Parse(expr)
}

// Parser turns type expressions such as
//
//	CompositeType(LongType(reversed=true), AsciiType)
//	org.apache.cassandra.db.marshal.ReversedType(org.apache.cassandra.db.marshal.UTF8Type)
//
// into AbstractType values. Parsed types are cached by expression; a Parser is safe for
// concurrent use.
type Parser struct {
	cache sync.Map // expression -> AbstractType
}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the type described by expr.
func (p *Parser) Parse(expr string) (AbstractType, error) {
	if cached, ok := p.cache.Load(expr); ok {
		return cached.(AbstractType), nil
	}

	tp := &typeParser{str: expr}
	t, err := tp.parse()
	if err != nil {
		return nil, err
	}

	tp.skipBlank()
	if !tp.atEnd() {
		return nil, newError(ErrInvalidTypeExpression, "unexpected %q at offset %d in %q",
			expr[tp.idx:], tp.idx, expr)
	}

	p.cache.Store(expr, t)
	return t, nil
}

// ParseComposite parses expr and requires the result to be a CompositeType.
func (p *Parser) ParseComposite(expr string) (*CompositeType, error) {
	t, err := p.Parse(expr)
	if err != nil {
		return nil, err
	}
	ct, ok := t.(*CompositeType)
	if !ok {
		return nil, newError(ErrInvalidTypeExpression, "%q is not a CompositeType", expr)
	}
	return ct, nil
}

type typeParser struct {
	str string
	idx int
}

func (p *typeParser) atEnd() bool {
	return p.idx >= len(p.str)
}

func (p *typeParser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.str[p.idx]
}

func (p *typeParser) skipBlank() {
	for !p.atEnd() {
		switch p.str[p.idx] {
		case ' ', '\t', '\n', '\r':
			p.idx++
		default:
			return
		}
	}
}

func isIdentifierChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '.' || c == '-' || c == '$' || c == '+'
}

func (p *typeParser) readIdentifier() string {
	start := p.idx
	for !p.atEnd() && isIdentifierChar(p.str[p.idx]) {
		p.idx++
	}
	return p.str[start:p.idx]
}

func (p *typeParser) errorf(format string, args ...interface{}) error {
	args = append(args, p.idx, p.str)
	return newError(ErrInvalidTypeExpression, format+" at offset %d in %q", args...)
}

func (p *typeParser) parse() (AbstractType, error) {
	p.skipBlank()
	name := p.readIdentifier()
	if name == "" {
		return nil, p.errorf("expected a type name")
	}
	// fully qualified class names are accepted, only the short name matters
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	p.skipBlank()
	if p.peek() != '(' {
		return build(name, nil, nil)
	}
	p.idx++

	var (
		types  []AbstractType
		params = make(map[string]string)
	)
	for {
		p.skipBlank()
		if p.peek() == ')' {
			p.idx++
			break
		}

		start := p.idx
		key := p.readIdentifier()
		p.skipBlank()
		if key != "" && p.peek() == '=' {
			p.idx++
			p.skipBlank()
			value := p.readIdentifier()
			if value == "" {
				return nil, p.errorf("missing value for parameter %s", key)
			}
			params[key] = value
		} else {
			p.idx = start
			t, err := p.parse()
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}

		p.skipBlank()
		switch p.peek() {
		case ',':
			p.idx++
			continue
		case ')':
			p.idx++
		default:
			return nil, p.errorf("expected ',' or ')'")
		}
		break
	}

	return build(name, types, params)
}

func build(name string, types []AbstractType, params map[string]string) (AbstractType, error) {
	reversed := false
	for k, v := range params {
		if k != "reversed" {
			return nil, newError(ErrInvalidTypeExpression, "unknown parameter %s for %s", k, name)
		}
		reversed = v == "true"
	}

	var t AbstractType
	switch name {
	case "CompositeType":
		if len(types) == 0 {
			return nil, newError(ErrInvalidTypeExpression, "CompositeType needs at least one component")
		}
		t = &CompositeType{Types: types}
	case "ReversedType":
		if len(types) != 1 {
			return nil, newError(ErrInvalidTypeExpression,
				"ReversedType takes exactly one type, got %d", len(types))
		}
		return &ReversedType{Base: types[0]}, nil
	default:
		simple, exists := simpleTypes[name]
		if !exists {
			return nil, newError(ErrUnknownType, "%s", name)
		}
		if len(types) > 0 {
			return nil, newError(ErrInvalidTypeExpression, "%s does not take type parameters", name)
		}
		t = simple
	}

	if reversed {
		return &ReversedType{Base: t}, nil
	}
	return t, nil
}
