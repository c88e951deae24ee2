package manifest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/conduit-lang/metagen/internal/introspect"
)

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenLAngle
	tokenRAngle
	tokenComma
	tokenLBracket
	tokenRBracket
	tokenQuestion
	tokenEOF
)

type token struct {
	kind   tokenKind
	lexeme string
	pos    int
}

// TypeExprError reports a malformed type expression
type TypeExprError struct {
	Expr    string
	Pos     int
	Message string
}

// Error implements the error interface
func (e *TypeExprError) Error() string {
	return fmt.Sprintf("invalid type %q at offset %d: %s", e.Expr, e.Pos, e.Message)
}

func scanTypeExpr(expr string) ([]token, error) {
	var tokens []token
	runes := []rune(expr)
	for i := 0; i < len(runes); {
		c := runes[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '<':
			tokens = append(tokens, token{tokenLAngle, "<", i})
			i++
		case c == '>':
			tokens = append(tokens, token{tokenRAngle, ">", i})
			i++
		case c == ',':
			tokens = append(tokens, token{tokenComma, ",", i})
			i++
		case c == '[':
			tokens = append(tokens, token{tokenLBracket, "[", i})
			i++
		case c == ']':
			tokens = append(tokens, token{tokenRBracket, "]", i})
			i++
		case c == '?':
			tokens = append(tokens, token{tokenQuestion, "?", i})
			i++
		case isIdentStart(c):
			start := i
			for i < len(runes) && (isIdentPart(runes[i]) || runes[i] == '.') {
				i++
			}
			tokens = append(tokens, token{tokenIdent, string(runes[start:i]), start})
		default:
			return nil, &TypeExprError{Expr: expr, Pos: i, Message: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return append(tokens, token{tokenEOF, "", len(runes)}), nil
}

func isIdentStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_' || c == '$'
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || unicode.IsDigit(c)
}

// typeParser is a recursive descent parser over the grammar
//
//	type     = base { "[" "]" }
//	base     = "?" [ ("extends" | "super") type ] | name [ "<" type { "," type } ">" ]
type typeParser struct {
	expr     string
	tokens   []token
	current  int
	typeVars map[string]bool
}

// ParseType parses a Java type expression such as
// "java.util.Map<java.lang.String, com.acme.Person>" or "int[]". Simple names
// listed in typeVars become type variables.
func ParseType(expr string, typeVars map[string]bool) (*introspect.TypeRef, error) {
	tokens, err := scanTypeExpr(expr)
	if err != nil {
		return nil, err
	}
	p := &typeParser{expr: expr, tokens: tokens, typeVars: typeVars}
	if p.check(tokenEOF) {
		return nil, p.fail("empty type")
	}
	t, err := p.parseType(false)
	if err != nil {
		return nil, err
	}
	if !p.check(tokenEOF) {
		return nil, p.fail(fmt.Sprintf("unexpected %q after type", p.peek().lexeme))
	}
	return t, nil
}

func (p *typeParser) parseType(argument bool) (*introspect.TypeRef, error) {
	var t *introspect.TypeRef
	if p.match(tokenQuestion) {
		if !argument {
			return nil, p.fail("wildcard outside a type argument list")
		}
		return p.parseWildcard()
	}

	name, err := p.consume(tokenIdent, "expected a type name")
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(name.lexeme, ".") || strings.Contains(name.lexeme, "..") {
		return nil, &TypeExprError{Expr: p.expr, Pos: name.pos, Message: "malformed qualified name"}
	}

	switch {
	case introspect.IsPrimitiveName(name.lexeme):
		t = introspect.Primitive(name.lexeme)
	case p.typeVars[name.lexeme]:
		t = introspect.TypeVar(name.lexeme)
	default:
		t = introspect.Declared(name.lexeme)
		if p.match(tokenLAngle) {
			if t.Args, err = p.parseArguments(); err != nil {
				return nil, err
			}
		}
	}

	for p.match(tokenLBracket) {
		if _, err := p.consume(tokenRBracket, "expected ']'"); err != nil {
			return nil, err
		}
		t = introspect.ArrayOf(t)
	}
	if t.Kind == introspect.KindPrimitive && t.Name == introspect.VoidType && argument {
		return nil, p.fail("void is not a type argument")
	}
	return t, nil
}

func (p *typeParser) parseArguments() ([]*introspect.TypeRef, error) {
	var args []*introspect.TypeRef
	for {
		arg, err := p.parseType(true)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(tokenComma) {
			break
		}
	}
	if _, err := p.consume(tokenRAngle, "expected '>' to close type arguments"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *typeParser) parseWildcard() (*introspect.TypeRef, error) {
	if !p.check(tokenIdent) {
		return introspect.Wildcard(nil, false), nil
	}
	switch p.peek().lexeme {
	case "extends", "super":
		super := p.advance().lexeme == "super"
		bound, err := p.parseType(true)
		if err != nil {
			return nil, err
		}
		return introspect.Wildcard(bound, super), nil
	default:
		return nil, p.fail("expected 'extends' or 'super' after '?'")
	}
}

func (p *typeParser) peek() token {
	return p.tokens[p.current]
}

func (p *typeParser) check(kind tokenKind) bool {
	return p.peek().kind == kind
}

func (p *typeParser) advance() token {
	tok := p.tokens[p.current]
	if tok.kind != tokenEOF {
		p.current++
	}
	return tok
}

func (p *typeParser) match(kind tokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *typeParser) consume(kind tokenKind, message string) (token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token{}, p.fail(message)
}

func (p *typeParser) fail(message string) error {
	return &TypeExprError{Expr: p.expr, Pos: p.peek().pos, Message: message}
}
