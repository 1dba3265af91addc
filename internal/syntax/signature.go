package syntax

import (
	"github.com/toyz/cgp/internal/tokens"
)

// Receiver is a method's `self` parameter
type Receiver struct {
	Reference bool
	Lifetime  tokens.Tree // zero value when no lifetime was written
	Mutable   bool
	Type      tokens.Stream // explicit type of `self: Type`, if any
}

// HasLifetime reports whether the receiver borrows with a named lifetime
func (r Receiver) HasLifetime() bool {
	return r.Lifetime.Kind == tokens.KindLifetime && r.Lifetime.Text != ""
}

// Tokens prints the receiver
func (r Receiver) Tokens() tokens.Stream {
	var out tokens.Stream
	if r.Reference {
		out = append(out, tokens.Punct('&', tokens.Alone))
		if r.HasLifetime() {
			out = append(out, r.Lifetime)
		}
	}
	if r.Mutable {
		out = append(out, tokens.Ident("mut"))
	}
	out = append(out, tokens.Ident("self"))
	if len(r.Type) > 0 {
		out = append(out, tokens.Punct(':', tokens.Alone))
		out = append(out, r.Type...)
	}
	return out
}

// FnArg is one function parameter: either a receiver or `pattern: Type`
type FnArg struct {
	Attrs    []Attribute
	Receiver *Receiver
	Pat      tokens.Stream
	Type     tokens.Stream
}

// Tokens prints the parameter
func (a FnArg) Tokens() tokens.Stream {
	out := AttrsTokens(a.Attrs)
	if a.Receiver != nil {
		return append(out, a.Receiver.Tokens()...)
	}
	out = append(out, a.Pat...)
	out = append(out, tokens.Punct(':', tokens.Alone))
	return append(out, a.Type...)
}

// Clone returns a deep copy of the parameter
func (a FnArg) Clone() FnArg {
	a.Attrs = cloneAttrs(a.Attrs)
	if a.Receiver != nil {
		r := *a.Receiver
		r.Type = r.Type.Clone()
		a.Receiver = &r
	}
	a.Pat = a.Pat.Clone()
	a.Type = a.Type.Clone()
	return a
}

// Signature is a function signature without its body
type Signature struct {
	Const    bool
	Async    bool
	Unsafe   bool
	Abi      tokens.Stream // `extern` with its optional ABI string
	Name     tokens.Tree
	Generics Generics
	Inputs   []FnArg
	Output   tokens.Stream // return type without the arrow; nil for `()`
}

// Receiver returns the receiver parameter, if the first input is one
func (s *Signature) Receiver() *Receiver {
	if len(s.Inputs) > 0 {
		return s.Inputs[0].Receiver
	}
	return nil
}

// Tokens prints the signature
func (s *Signature) Tokens() tokens.Stream {
	var out tokens.Stream
	if s.Const {
		out = append(out, tokens.Ident("const"))
	}
	if s.Async {
		out = append(out, tokens.Ident("async"))
	}
	if s.Unsafe {
		out = append(out, tokens.Ident("unsafe"))
	}
	out = append(out, s.Abi...)
	out = append(out, tokens.Ident("fn"), s.Name)
	out = append(out, s.Generics.DeclTokens()...)
	out = append(out, tokens.Group(tokens.DelimParen, tokens.Join(s.Inputs, ",")))
	if len(s.Output) > 0 {
		out = append(out, tokens.Ops("->")...)
		out = append(out, s.Output...)
	}
	return append(out, s.Generics.WhereTokens()...)
}

// Clone returns a deep copy of the signature
func (s *Signature) Clone() *Signature {
	out := *s
	out.Abi = s.Abi.Clone()
	out.Generics = s.Generics.Clone()
	out.Inputs = make([]FnArg, len(s.Inputs))
	for i, in := range s.Inputs {
		out.Inputs[i] = in.Clone()
	}
	out.Output = s.Output.Clone()
	return &out
}

// peekSignature reports whether the cursor sits on the qualifiers and
// `fn` keyword of a function
func peekSignature(c *tokens.Cursor) bool {
	fork := c.Fork()
	parseQualifiers(fork, &Signature{})
	return fork.PeekIdent("fn")
}

func parseQualifiers(c *tokens.Cursor, sig *Signature) {
	sig.Const = c.EatIdent("const")
	sig.Async = c.EatIdent("async")
	sig.Unsafe = c.EatIdent("unsafe")
	if c.PeekIdent("extern") {
		t, _ := c.Next()
		sig.Abi = tokens.Stream{t}
		if c.PeekKind(0, tokens.KindLiteral) {
			lit, _ := c.Next()
			sig.Abi = append(sig.Abi, lit)
		}
	}
}

// ParseSignature parses a function signature up to its body or `;`
func ParseSignature(c *tokens.Cursor) (*Signature, error) {
	sig := &Signature{}
	parseQualifiers(c, sig)
	if err := c.ExpectKeyword("fn"); err != nil {
		return nil, err
	}
	name, err := c.ExpectIdent()
	if err != nil {
		return nil, err
	}
	sig.Name = name
	if sig.Generics, err = ParseGenerics(c); err != nil {
		return nil, err
	}

	params, err := c.ExpectGroup(tokens.DelimParen)
	if err != nil {
		return nil, err
	}
	for i, part := range tokens.SplitTop(params.Stream, ',') {
		arg, err := parseFnArg(part, params.Span, i == 0)
		if err != nil {
			return nil, err
		}
		sig.Inputs = append(sig.Inputs, arg)
	}

	if c.EatPunct("->") {
		if sig.Output, err = ParseType(c); err != nil {
			return nil, err
		}
	}
	if sig.Generics.Where, err = ParseWhereClause(c); err != nil {
		return nil, err
	}
	return sig, nil
}

func parseFnArg(s tokens.Stream, scope tokens.Span, first bool) (FnArg, error) {
	c := tokens.NewCursor(s, scope)
	var arg FnArg
	arg.Attrs = ParseAttributes(c)

	if first {
		if r, ok := parseReceiver(c.Fork()); ok {
			parseReceiver(c)
			arg.Receiver = r
			return arg, c.ExpectEOF()
		}
	}

	arg.Pat = c.Scan(":", false)
	if len(arg.Pat) == 0 {
		return arg, c.Errorf("parameter pattern")
	}
	if err := c.ExpectPunct(":"); err != nil {
		return arg, err
	}
	arg.Type = c.Rest()
	if len(arg.Type) == 0 {
		return arg, c.Errorf("parameter type")
	}
	return arg, nil
}

func parseReceiver(c *tokens.Cursor) (*Receiver, bool) {
	r := &Receiver{}
	if c.EatPunct("&") {
		r.Reference = true
		if c.PeekKind(0, tokens.KindLifetime) {
			r.Lifetime, _ = c.Next()
		}
	}
	r.Mutable = c.EatIdent("mut")
	if !c.EatIdent("self") {
		return nil, false
	}
	if c.EatPunct(":") {
		if r.Reference {
			return nil, false
		}
		r.Type = c.Rest()
	}
	return r, c.EOF()
}
