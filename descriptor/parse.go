package descriptor

import (
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

// ErrSyntax is returned (wrapped) for any malformed descriptor text.
var ErrSyntax = errors.New("descriptor syntax error")

// Parse parses a concrete descriptor. Pattern variables are not allowed.
func Parse(src string) (Descriptor, error) {
	return parse(src, nil)
}

// MustParse is like Parse but panics on error. Intended for package-level
// tables and init-time registration.
func MustParse(src string) Descriptor {
	d, err := Parse(src)
	if err != nil {
		panic(err)
	}

	return d
}

// ParsePattern parses a descriptor in which every identifier listed in params
// is a pattern variable. "P..." declares a variadic variable.
func ParsePattern(src string, params ...string) (Descriptor, error) {
	set := make(map[string]struct{}, len(params))
	for _, p := range params {
		set[strings.TrimSuffix(strings.TrimSpace(p), "...")] = struct{}{}
	}

	return parse(src, set)
}

// MustParsePattern is like ParsePattern but panics on error.
func MustParsePattern(src string, params ...string) Descriptor {
	d, err := ParsePattern(src, params...)
	if err != nil {
		panic(err)
	}

	return d
}

func parse(src string, params map[string]struct{}) (Descriptor, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks, params: params}

	d, err := p.descriptor()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %q after descriptor", tok.text)
	}

	return d, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokLAngle
	tokRAngle
	tokLBrack
	tokRBrack
	tokComma
	tokAmp
	tokAmpAmp
	tokStar
	tokEllipsis
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(src string) ([]token, error) {
	var (
		toks []token
		rs   = []rune(src)
	)

	for i := 0; i < len(rs); {
		r := rs[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case r == '<':
			toks = append(toks, token{tokLAngle, "<", i})
			i++
		case r == '>':
			toks = append(toks, token{tokRAngle, ">", i})
			i++
		case r == '[':
			toks = append(toks, token{tokLBrack, "[", i})
			i++
		case r == ']':
			toks = append(toks, token{tokRBrack, "]", i})
			i++
		case r == ',':
			toks = append(toks, token{tokComma, ",", i})
			i++
		case r == '*':
			toks = append(toks, token{tokStar, "*", i})
			i++

		case r == '&':
			if i+1 < len(rs) && rs[i+1] == '&' {
				toks = append(toks, token{tokAmpAmp, "&&", i})
				i += 2
			} else {
				toks = append(toks, token{tokAmp, "&", i})
				i++
			}

		case r == '.' && hasPrefixAt(rs, i, "..."):
			toks = append(toks, token{tokEllipsis, "...", i})
			i += 3

		case unicode.IsDigit(r) || (r == '-' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			start := i
			i++

			for i < len(rs) && (unicode.IsDigit(rs[i]) || unicode.IsLetter(rs[i])) {
				i++
			}

			toks = append(toks, token{tokNumber, string(rs[start:i]), start})

		case isIdentStart(r) || hasPrefixAt(rs, i, "::"):
			start := i
			i = scanIdent(rs, i)
			toks = append(toks, token{tokIdent, string(rs[start:i]), start})

		default:
			return nil, errors.Wrapf(ErrSyntax, "unexpected character %q at offset %d", r, i)
		}
	}

	return append(toks, token{tokEOF, "", len(rs)}), nil
}

func scanIdent(rs []rune, i int) int {
	for i < len(rs) {
		r := rs[i]

		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			i++
		case hasPrefixAt(rs, i, "::"):
			i += 2
		case r == '.' && !hasPrefixAt(rs, i, "..."):
			i++
		case r == '/' || r == '-':
			i++
		default:
			return i
		}
	}

	return i
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func hasPrefixAt(rs []rune, i int, prefix string) bool {
	for j, pr := range prefix {
		if i+j >= len(rs) || rs[i+j] != pr {
			return false
		}
	}

	return true
}

type parser struct {
	toks   []token
	i      int
	params map[string]struct{}
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) next() token {
	tok := p.toks[p.i]
	if tok.kind != tokEOF {
		p.i++
	}

	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return errors.Wrapf(ErrSyntax, "offset %d: "+format, append([]any{tok.pos}, args...)...)
}

func isCV(tok token) (Qualifier, bool) {
	if tok.kind != tokIdent {
		return QualNone, false
	}

	switch tok.text {
	case "const":
		return QualConst, true
	case "volatile":
		return QualVolatile, true
	default:
		return QualNone, false
	}
}

// descriptor := cv* type (cv | '*' | '&' | '&&')*
func (p *parser) descriptor() (Descriptor, error) {
	var q Qualifier

	for {
		cv, ok := isCV(p.peek())
		if !ok {
			break
		}

		q |= cv
		p.next()
	}

	base, err := p.typ()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if cv, ok := isCV(tok); ok {
			q |= cv
			p.next()

			continue
		}

		switch tok.kind {
		case tokStar:
			p.next()

			cv := q & (QualConst | QualVolatile)
			base = Con{Name: PointerName, Args: []Descriptor{Qualify(base, cv)}}
			q &^= cv
		case tokAmp:
			p.next()

			q |= QualLRef
		case tokAmpAmp:
			p.next()

			q |= QualRRef
		default:
			return Qualify(base, q), nil
		}
	}
}

func (p *parser) typ() (Descriptor, error) {
	tok := p.next()

	switch tok.kind {
	case tokStar:
		inner, err := p.typ()
		if err != nil {
			return nil, err
		}

		return Qualified{Qual: QualPointer, Base: inner}, nil

	case tokLBrack:
		name := SliceName

		if n := p.peek(); n.kind == tokNumber {
			p.next()
			name = "[" + n.text + "]"
		}

		if closing := p.next(); closing.kind != tokRBrack {
			return nil, p.errorf(closing, "expected ']' got %q", closing.text)
		}

		elem, err := p.typ()
		if err != nil {
			return nil, err
		}

		return Con{Name: name, Args: []Descriptor{elem}}, nil

	case tokNumber:
		return Value{Text: tok.text}, nil

	case tokIdent:
		switch tok.text {
		case "true", "false":
			return Value{Text: tok.text}, nil
		case invalidName:
			return Invalid, nil
		}

		if _, isParam := p.params[tok.text]; isParam {
			v := Var{Name: tok.text}
			if p.peek().kind == tokEllipsis {
				p.next()
				v.Variadic = true
			}

			return v, nil
		}

		con := Con{Name: tok.text}

		switch open := p.peek(); open.kind {
		case tokLAngle, tokLBrack:
			p.next()

			args, err := p.args(closerOf(open.kind))
			if err != nil {
				return nil, err
			}

			con.Args = args
		}

		if e := p.peek(); e.kind == tokEllipsis {
			return nil, p.errorf(e, "%q is not a declared parameter pack", tok.text)
		}

		return con, nil

	case tokEOF:
		return nil, p.errorf(tok, "unexpected end of descriptor")

	default:
		return nil, p.errorf(tok, "unexpected %q", tok.text)
	}
}

func closerOf(k tokenKind) tokenKind {
	if k == tokLAngle {
		return tokRAngle
	}

	return tokRBrack
}

func (p *parser) args(closer tokenKind) ([]Descriptor, error) {
	args := []Descriptor{}

	if p.peek().kind == closer {
		p.next()
		return args, nil
	}

	for {
		d, err := p.descriptor()
		if err != nil {
			return nil, err
		}

		args = append(args, d)

		tok := p.next()

		switch tok.kind {
		case tokComma:
			if v, ok := d.(Var); ok && v.Variadic {
				return nil, p.errorf(tok, "parameter pack %q must be the last argument", v.Name)
			}
		case closer:
			return args, nil
		default:
			return nil, p.errorf(tok, "expected ',' or closing bracket, got %q", tok.text)
		}
	}
}
