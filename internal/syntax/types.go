package syntax

import (
	"github.com/toyz/cgp/internal/tokens"
)

// Types are kept as token streams; the generator only ever splices or
// rewrites them. They are still parsed in full so that malformed input is
// rejected where it is written instead of producing broken impls.

// identifiers that can never start or continue a type path
var reservedWords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "else": true, "enum": true, "if": true, "in": true,
	"let": true, "loop": true, "match": true, "mod": true, "move": true,
	"mut": true, "pub": true, "ref": true, "return": true, "static": true,
	"struct": true, "trait": true, "type": true, "use": true, "where": true,
	"while": true,
}

// ParseType consumes one type and returns its tokens. It accepts paths
// with generic arguments (`a::B<'x, T, Item = U>`, `Fn(A) -> B`), macro
// types such as `symbol!("x")`, references, raw pointers, tuples, slices,
// arrays, `fn` pointers, `dyn`/`impl` bound lists, qualified paths
// (`<T as Trait>::Name`), `!` and `_`.
func ParseType(c *tokens.Cursor) (tokens.Stream, error) {
	rest := c.Remaining()
	start := c.Pos()
	if err := parseType(c); err != nil {
		return nil, err
	}
	return rest[:c.Pos()-start], nil
}

// ParseTypeStream parses a complete stream as a single type
func ParseTypeStream(s tokens.Stream) (tokens.Stream, error) {
	c := tokens.NewCursor(s, tokens.Span{})
	ty, err := ParseType(c)
	if err != nil {
		return nil, err
	}
	return ty, c.ExpectEOF()
}

func parseType(c *tokens.Cursor) error {
	t, ok := c.Peek(0)
	if !ok {
		return c.Errorf("type")
	}

	switch {
	case t.IsGroup(tokens.DelimParen):
		c.Next()
		return parseTypeList(tokens.NewCursor(t.Stream, t.Span))
	case t.IsGroup(tokens.DelimBracket):
		c.Next()
		return parseArrayType(tokens.NewCursor(t.Stream, t.Span))
	case c.PeekPunct("&"):
		c.Next()
		if c.PeekKind(0, tokens.KindLifetime) {
			c.Next()
		}
		c.EatIdent("mut")
		return parseType(c)
	case c.PeekPunct("*"):
		c.Next()
		if !c.EatIdent("const") && !c.EatIdent("mut") {
			return c.Errorf("`const` or `mut`")
		}
		return parseType(c)
	case c.PeekPunct("!"):
		c.Next()
		return nil
	case c.PeekPunct("<"):
		return parseQualifiedPath(c)
	case t.IsIdent("_"):
		c.Next()
		return nil
	case t.IsIdent("dyn"), t.IsIdent("impl"):
		c.Next()
		return parseBounds(c)
	case t.IsIdent("for"), t.IsIdent("unsafe"), t.IsIdent("extern"), t.IsIdent("fn"):
		return parseFnPointer(c)
	case t.Kind == tokens.KindIdent, c.PeekPunct("::"):
		return parsePath(c, true)
	}
	return c.Errorf("type")
}

// parseTypeList parses the inside of a tuple or parenthesized type
func parseTypeList(c *tokens.Cursor) error {
	for !c.EOF() {
		if err := parseType(c); err != nil {
			return err
		}
		if c.EOF() {
			break
		}
		if err := c.ExpectPunct(","); err != nil {
			return err
		}
	}
	return nil
}

// parseArrayType parses `[T]` or `[T; N]`; the length is kept as written
func parseArrayType(c *tokens.Cursor) error {
	if err := parseType(c); err != nil {
		return err
	}
	if c.EatPunct(";") {
		if len(c.Rest()) == 0 {
			return c.Errorf("array length")
		}
		return nil
	}
	return c.ExpectEOF()
}

// parseQualifiedPath parses `<T>::Name` and `<T as Trait>::Name`
func parseQualifiedPath(c *tokens.Cursor) error {
	c.EatPunct("<")
	if err := parseType(c); err != nil {
		return err
	}
	if c.EatIdent("as") {
		if err := parsePath(c, true); err != nil {
			return err
		}
	}
	if err := c.ExpectPunct(">"); err != nil {
		return err
	}
	if err := c.ExpectPunct("::"); err != nil {
		return err
	}
	return parsePath(c, true)
}

// parsePath parses `[::] Segment (:: Segment)*`. A segment is an
// identifier with optional generic arguments, or with parenthesized
// arguments and a return type for the `Fn` traits. The last segment may
// be a macro call when macros is set.
func parsePath(c *tokens.Cursor, macros bool) error {
	c.EatPunct("::")
	for {
		if err := parsePathSegment(c); err != nil {
			return err
		}
		if macros && c.PeekPunct("!") {
			if next, ok := c.Peek(1); ok && next.Kind == tokens.KindGroup {
				c.Advance(2)
				return nil
			}
		}
		if !c.EatPunct("::") {
			return nil
		}
		// turbofish: `Foo::<T>`
		if c.PeekPunct("<") {
			if err := parseGenericArgs(c); err != nil {
				return err
			}
			if !c.EatPunct("::") {
				return nil
			}
		}
	}
}

func parsePathSegment(c *tokens.Cursor) error {
	t, ok := c.Peek(0)
	if !ok || t.Kind != tokens.KindIdent || reservedWords[t.Text] {
		return c.Errorf("path segment")
	}
	c.Next()

	switch {
	case c.PeekPunct("<"):
		return parseGenericArgs(c)
	case c.PeekGroup(tokens.DelimParen):
		args, _ := c.Next()
		if err := parseTypeList(tokens.NewCursor(args.Stream, args.Span)); err != nil {
			return err
		}
		if c.EatPunct("->") {
			return parseType(c)
		}
	}
	return nil
}

// parseGenericArgs parses `<...>` after a path segment. Arguments are
// lifetimes, types, const values or associated item bindings
// (`Item = T`, `Item: Bound`, `Item<'a> = T`).
func parseGenericArgs(c *tokens.Cursor) error {
	if err := c.ExpectPunct("<"); err != nil {
		return err
	}
	for !c.EatPunct(">") {
		if err := parseGenericArg(c); err != nil {
			return err
		}
		if c.EatPunct(",") {
			continue
		}
		if err := c.ExpectPunct(">"); err != nil {
			return err
		}
		return nil
	}
	return nil
}

func parseGenericArg(c *tokens.Cursor) error {
	t, ok := c.Peek(0)
	if !ok {
		return c.Errorf("generic argument")
	}

	switch {
	case t.Kind == tokens.KindLifetime, t.Kind == tokens.KindLiteral, t.IsGroup(tokens.DelimBrace):
		c.Next()
		return nil
	case c.PeekPunct("-") && c.PeekKind(1, tokens.KindLiteral):
		c.Advance(2)
		return nil
	}

	if binding := c.Fork(); parseBindingName(binding) {
		c.Join(binding)
		if c.EatPunct("=") {
			return parseType(c)
		}
		c.EatPunct(":")
		return parseBounds(c)
	}
	return parseType(c)
}

// parseBindingName consumes `Name[<args>]` when it is followed by `=` or
// a single `:`
func parseBindingName(c *tokens.Cursor) bool {
	t, ok := c.Next()
	if !ok || t.Kind != tokens.KindIdent {
		return false
	}
	if c.PeekPunct("<") && parseGenericArgs(c) != nil {
		return false
	}
	return c.PeekPunct("=") || c.PeekPunct(":")
}

// parseBounds parses a non-empty `+`-separated bound list
func parseBounds(c *tokens.Cursor) error {
	for {
		if err := parseBound(c); err != nil {
			return err
		}
		if !c.EatPunct("+") {
			return nil
		}
	}
}

func parseBound(c *tokens.Cursor) error {
	if c.PeekKind(0, tokens.KindLifetime) {
		c.Next()
		return nil
	}
	if c.PeekGroup(tokens.DelimParen) {
		group, _ := c.Next()
		inner := tokens.NewCursor(group.Stream, group.Span)
		if err := parseBound(inner); err != nil {
			return err
		}
		return inner.ExpectEOF()
	}
	c.EatPunct("?")
	if c.PeekIdent("for") {
		if err := parseHigherRanked(c); err != nil {
			return err
		}
	}
	return parsePath(c, false)
}

// parseHigherRanked parses `for<'a, 'b>`
func parseHigherRanked(c *tokens.Cursor) error {
	c.EatIdent("for")
	if err := c.ExpectPunct("<"); err != nil {
		return err
	}
	for !c.EatPunct(">") {
		if _, err := c.ExpectLifetime(); err != nil {
			return err
		}
		if !c.EatPunct(",") {
			return c.ExpectPunct(">")
		}
	}
	return nil
}

// parseFnPointer parses `[for<'a>] [unsafe] [extern "abi"] fn(args) [-> T]`.
// Arguments may be named.
func parseFnPointer(c *tokens.Cursor) error {
	if c.PeekIdent("for") {
		if err := parseHigherRanked(c); err != nil {
			return err
		}
	}
	c.EatIdent("unsafe")
	if c.EatIdent("extern") && c.PeekKind(0, tokens.KindLiteral) {
		c.Next()
	}
	if err := c.ExpectKeyword("fn"); err != nil {
		return err
	}
	args, err := c.ExpectGroup(tokens.DelimParen)
	if err != nil {
		return err
	}
	for _, arg := range tokens.SplitTop(args.Stream, ',') {
		ac := tokens.NewCursor(arg, args.Span)
		if ac.PeekKind(0, tokens.KindIdent) && ac.PeekPunctAt(1, ":") {
			ac.Advance(2)
		}
		if ac.PeekPunct("...") {
			continue
		}
		if err := parseType(ac); err != nil {
			return err
		}
		if err := ac.ExpectEOF(); err != nil {
			return err
		}
	}
	if c.EatPunct("->") {
		return parseType(c)
	}
	return nil
}

// SplitBounds splits a `+`-separated bound list
func SplitBounds(s tokens.Stream) []tokens.Stream {
	return tokens.SplitTop(s, '+')
}

// PathName returns the last identifier of a type path, ignoring generic
// arguments: `a::b::Foo<T>` yields `Foo`.
func PathName(s tokens.Stream) (tokens.Tree, bool) {
	var last tokens.Tree
	found := false
	for _, t := range s {
		if t.IsPunct('<') {
			break
		}
		if t.Kind == tokens.KindIdent {
			last = t
			found = true
		}
	}
	return last, found
}
