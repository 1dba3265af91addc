package syntax

import (
	"github.com/toyz/cgp/internal/tokens"
)

// ImplItem is a member of an impl block
type ImplItem interface {
	tokens.ToTokens
}

// ImplFn is a method implementation
type ImplFn struct {
	Attrs []Attribute
	Sig   *Signature
	Body  tokens.Stream // contents of the brace group
}

// Tokens prints the method
func (f *ImplFn) Tokens() tokens.Stream {
	out := AttrsTokens(f.Attrs)
	out = append(out, f.Sig.Tokens()...)
	return append(out, tokens.Group(tokens.DelimBrace, f.Body))
}

// ImplType is an associated type definition. The where clause of its
// generics is printed after the type, as rustc expects.
type ImplType struct {
	Attrs    []Attribute
	Name     tokens.Tree
	Generics Generics
	Type     tokens.Stream
}

// Tokens prints the type definition
func (t *ImplType) Tokens() tokens.Stream {
	out := AttrsTokens(t.Attrs)
	out = append(out, tokens.Ident("type"), t.Name)
	out = append(out, t.Generics.DeclTokens()...)
	out = append(out, tokens.Punct('=', tokens.Alone))
	out = append(out, t.Type...)
	out = append(out, t.Generics.WhereTokens()...)
	return append(out, tokens.Punct(';', tokens.Alone))
}

// ItemImpl is an impl block
type ItemImpl struct {
	Attrs    []Attribute
	Unsafe   bool
	Generics Generics
	Trait    tokens.Stream // nil for inherent impls
	SelfType tokens.Stream
	Items    []ImplItem
}

// Tokens prints the impl block
func (i *ItemImpl) Tokens() tokens.Stream {
	out := AttrsTokens(i.Attrs)
	if i.Unsafe {
		out = append(out, tokens.Ident("unsafe"))
	}
	out = append(out, tokens.Ident("impl"))
	out = append(out, i.Generics.ImplTokens()...)
	if len(i.Trait) > 0 {
		out = append(out, i.Trait...)
		out = append(out, tokens.Ident("for"))
	}
	out = append(out, i.SelfType...)
	out = append(out, i.Generics.WhereTokens()...)

	var body tokens.Stream
	for _, item := range i.Items {
		body = append(body, item.Tokens()...)
	}
	return append(out, tokens.Group(tokens.DelimBrace, body))
}
