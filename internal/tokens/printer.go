package tokens

import (
	"strconv"
	"strings"
)

// keywords that are followed by a space even before a group or `<`
var spacedKeywords = map[string]bool{
	"as": true, "dyn": true, "else": true, "for": true, "if": true, "in": true,
	"let": true, "match": true, "move": true, "mut": true, "return": true,
	"where": true, "while": true, "unsafe": true, "async": true,
}

// keywords that keep a space before a leading `::` path
var pathKeywords = map[string]bool{
	"pub": true, "impl": true, "use": true, "const": true, "static": true, "extern": true,
}

// pairs of punctuation that print without a space when the first is joint
var jointOps = map[string]bool{
	"::": true, "->": true, "=>": true, "..": true, "==": true, "!=": true,
	"<=": true, ">=": true, "&&": true, "||": true, "<<": true, ">>": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true, "^=": true,
	"&=": true, "|=": true,
}

// String renders the stream on a single line with Rust-like spacing
func (s Stream) String() string {
	var p printer
	p.line(s)
	return p.buf.String()
}

type printer struct {
	buf strings.Builder
}

// role classifies a token by how it interacts with its neighbours
type role int

const (
	roleValue role = iota
	roleOperator
	rolePathSep
	roleAngleOpen
	roleAngleClose
	roleUnary
	roleAttr
	roleMacroBang
	roleTight
	roleSeparator
	roleColon
	roleRepeat
)

type printed struct {
	tree Tree
	role role
}

// classify assigns a printing role to every top-level token in s
func classify(s Stream) []printed {
	out := make([]printed, len(s))
	angle := 0
	for i, t := range s {
		out[i] = printed{tree: t, role: roleValue}
		if t.Kind != KindPunct {
			continue
		}
		var prev *printed
		if i > 0 {
			prev = &out[i-1]
		}
		if isRepetition(s, i) {
			out[i].role = roleRepeat
			continue
		}
		joint := t.Spacing == Joint
		nextIs := func(ch byte) bool { return i+1 < len(s) && s[i+1].IsPunct(ch) }
		prevValue := prev != nil && (prev.role == roleValue || prev.role == roleAngleClose) &&
			!(prev.tree.Kind == KindIdent && spacedKeywords[prev.tree.Text])
		if prev != nil && prev.role == roleOperator && s[i-1].Spacing == Joint && jointOps[s[i-1].Text+t.Text] {
			// second half of `&&`, `!=`, `<=` and friends
			out[i].role = roleOperator
			continue
		}

		switch t.Text {
		case ":":
			switch {
			case joint && nextIs(':'):
				out[i].role = rolePathSep
			case prev != nil && prev.role == rolePathSep && prev.tree.IsPunct(':') && s[i-1].Spacing == Joint:
				out[i].role = rolePathSep
			case i >= 2 && s[i-1].Kind == KindIdent && s[i-2].IsPunct('$') && i+1 < len(s) && s[i+1].Kind == KindIdent:
				// macro fragment `$x:ty`
				out[i].role = roleTight
			default:
				out[i].role = roleColon
			}
		case "<":
			switch {
			case joint && nextIs('='):
				out[i].role = roleOperator
			case prev == nil || prev.role != roleValue || prev.tree.Kind == KindIdent || prev.role == rolePathSep:
				out[i].role = roleAngleOpen
				angle++
			default:
				out[i].role = roleOperator
			}
		case ">":
			arrow := prev != nil && s[i-1].Spacing == Joint && (s[i-1].IsPunct('-') || s[i-1].IsPunct('='))
			switch {
			case arrow:
				out[i].role = roleOperator
			case angle > 0:
				out[i].role = roleAngleClose
				angle--
			default:
				out[i].role = roleOperator
			}
		case "-", "=":
			if joint && nextIs('>') {
				out[i].role = roleOperator
			} else if t.Text == "-" && !prevValue {
				out[i].role = roleUnary
			} else {
				out[i].role = roleOperator
			}
		case "&", "*":
			if prevValue {
				out[i].role = roleOperator
			} else {
				out[i].role = roleUnary
			}
		case "!":
			switch {
			case joint && nextIs('='):
				out[i].role = roleOperator
			case prev != nil && prev.tree.IsPunct('#'):
				out[i].role = roleAttr
			case prev != nil && prev.tree.Kind == KindIdent && !spacedKeywords[prev.tree.Text]:
				out[i].role = roleMacroBang
			case i+1 == len(s) || s[i+1].IsGroup(DelimBrace) || s[i+1].IsPunct(';') || s[i+1].IsPunct(','):
				// never type
				out[i].role = roleValue
			default:
				out[i].role = roleUnary
			}
		case "#", "$", "@":
			out[i].role = roleAttr
		case ".", "?":
			out[i].role = roleTight
		case ",", ";":
			out[i].role = roleSeparator
		default:
			out[i].role = roleOperator
		}
	}
	return out
}

// isRepetition reports whether the token at i is the `*`, `+` or `?` of a
// macro repetition `$(...)*` or `$(...),*`
func isRepetition(s Stream, i int) bool {
	if !s[i].IsPunct('*') && !s[i].IsPunct('+') && !s[i].IsPunct('?') {
		return false
	}
	j := i - 1
	if j >= 0 && (s[j].IsPunct(',') || s[j].IsPunct(';')) {
		j--
	}
	return j >= 1 && s[j].IsGroup(DelimParen) && s[j-1].IsPunct('$')
}

// needsSpace decides whether a space separates two adjacent tokens
func needsSpace(prev, next printed, prevJointPunct bool) bool {
	if prevJointPunct && next.tree.Kind == KindPunct && jointOps[prev.tree.Text+next.tree.Text] {
		return false
	}
	switch prev.role {
	case roleMacroBang:
		return next.tree.IsGroup(DelimBrace) || next.tree.Kind == KindIdent
	case rolePathSep, roleAngleOpen, roleUnary, roleAttr, roleTight:
		return false
	}
	switch next.role {
	case roleSeparator, roleTight, roleColon, roleAngleClose, roleMacroBang, roleRepeat:
		return false
	case rolePathSep:
		if prev.tree.Kind == KindIdent {
			return spacedKeywords[prev.tree.Text] || pathKeywords[prev.tree.Text]
		}
		return !(prev.role == roleAngleClose || prev.tree.Kind == KindGroup)
	case roleAngleOpen:
		if prev.tree.IsIdent("for") {
			return false
		}
		return !(prev.tree.Kind == KindIdent && !spacedKeywords[prev.tree.Text])
	}
	if next.tree.Kind == KindGroup && next.tree.Delim != DelimBrace {
		switch prev.tree.Kind {
		case KindIdent:
			return spacedKeywords[prev.tree.Text]
		case KindGroup:
			return false
		}
		return prev.role != roleAngleClose
	}
	return true
}

// line writes s on a single line
func (p *printer) line(s Stream) {
	roles := classify(s)
	for i, cur := range roles {
		if i > 0 {
			prev := roles[i-1]
			joint := prev.tree.Kind == KindPunct && prev.tree.Spacing == Joint
			if needsSpace(prev, cur, joint) {
				p.buf.WriteByte(' ')
			}
		}
		p.tree(cur.tree)
	}
}

func (p *printer) tree(t Tree) {
	if t.Kind != KindGroup {
		p.buf.WriteString(t.Text)
		return
	}
	p.buf.WriteString(t.Delim.Open())
	if t.Delim == DelimBrace && len(t.Stream) > 0 {
		p.buf.WriteByte(' ')
		p.line(t.Stream)
		p.buf.WriteByte(' ')
	} else {
		p.line(t.Stream)
	}
	p.buf.WriteString(t.Delim.Close())
}

// Format pretty-prints a stream of items: brace groups are broken over
// indented lines, where clauses get their own lines, comma separated
// bodies put one entry per line, and doc attributes become `///` comments.
func Format(s Stream) string {
	f := formatter{indentUnit: "    "}
	f.block(s, 0, true)
	out := f.buf.String()
	return strings.TrimRight(out, "\n") + "\n"
}

type formatter struct {
	buf        strings.Builder
	indentUnit string
}

func (f *formatter) indent(depth int) {
	for i := 0; i < depth; i++ {
		f.buf.WriteString(f.indentUnit)
	}
}

// block writes the contents of a brace group (or the root) one statement per line
func (f *formatter) block(s Stream, depth int, root bool) {
	commaMode := !root && len(SplitTop(s, ',')) > 1
	for _, t := range s {
		if t.IsPunct(';') || t.IsIdent("where") {
			commaMode = false
			break
		}
	}

	stmts := splitStatements(s, commaMode)
	for i, stmt := range stmts {
		if root && i > 0 && !isAttribute(stmts[i-1].tokens) {
			f.buf.WriteByte('\n')
		}
		f.indent(depth)
		if doc, ok := docComment(stmt.tokens); ok {
			f.buf.WriteString(doc)
			f.buf.WriteByte('\n')
			continue
		}
		f.statement(stmt.tokens, depth)
		if commaMode && !isAttribute(stmt.tokens) {
			f.buf.WriteByte(',')
		}
		f.buf.WriteByte('\n')
	}
}

type statement struct {
	tokens Stream
}

// splitStatements cuts s after `;`, after attributes, after trailing brace
// groups and, in comma mode, at top-level commas.
func splitStatements(s Stream, commaMode bool) []statement {
	var out []statement
	var cur Stream
	angle := 0
	flush := func() {
		if len(cur) > 0 {
			out = append(out, statement{tokens: cur})
		}
		cur = nil
	}
	for i := 0; i < len(s); i++ {
		t := s[i]
		switch {
		case t.IsPunct('<'):
			angle++
		case t.IsPunct('>') && !isArrowTail(s, i) && angle > 0:
			angle--
		}
		if commaMode && t.IsPunct(',') && angle == 0 {
			flush()
			continue
		}
		cur = append(cur, t)
		switch {
		case t.IsPunct(';'):
			flush()
			angle = 0
		case t.IsGroup(DelimBracket) && isAttribute(cur):
			flush()
		case t.IsGroup(DelimBrace) && !commaMode:
			if i+1 < len(s) && continuesExpression(s[i+1]) {
				continue
			}
			flush()
			angle = 0
		}
	}
	flush()
	return out
}

func continuesExpression(t Tree) bool {
	if t.Kind == KindPunct {
		return t.IsPunct(';') || t.IsPunct('.') || t.IsPunct('?') || t.IsPunct(',')
	}
	return t.IsIdent("else")
}

func isAttribute(s Stream) bool {
	switch {
	case len(s) == 2:
		return s[0].IsPunct('#') && s[1].IsGroup(DelimBracket)
	case len(s) == 3:
		return s[0].IsPunct('#') && s[1].IsPunct('!') && s[2].IsGroup(DelimBracket)
	}
	return false
}

// docComment renders a plain `#[doc = "..."]` attribute back as a comment
func docComment(s Stream) (string, bool) {
	if !isAttribute(s) {
		return "", false
	}
	body := s[len(s)-1].Stream
	if len(body) != 3 || !body[0].IsIdent("doc") || !body[1].IsPunct('=') || body[2].Kind != KindLiteral {
		return "", false
	}
	text, err := strconv.Unquote(body[2].Text)
	if err != nil || strings.Contains(text, "\n") {
		return "", false
	}
	if len(s) == 3 {
		return "//!" + text, true
	}
	return "///" + text, true
}

// statement writes one statement, expanding brace groups and where clauses
func (f *formatter) statement(s Stream, depth int) {
	whereAt := -1
	for i, t := range s {
		if t.IsIdent("where") {
			whereAt = i
			break
		}
	}

	head := s
	var tail Stream
	if whereAt >= 0 {
		head = s[:whereAt]
		tail = s[whereAt+1:]
	}
	f.inline(head, depth)
	if whereAt < 0 {
		return
	}

	// where clause predicates run until the body or the terminating `;`
	end := len(tail)
	if end > 0 && (tail[end-1].IsGroup(DelimBrace) || tail[end-1].IsPunct(';')) {
		end--
	}
	preds := SplitTop(tail[:end], ',')
	f.buf.WriteByte('\n')
	f.indent(depth)
	f.buf.WriteString("where")
	for i, pred := range preds {
		f.buf.WriteByte('\n')
		f.indent(depth + 1)
		f.buf.WriteString(pred.String())
		if i < len(preds)-1 || end == len(tail) || tail[end].IsGroup(DelimBrace) {
			f.buf.WriteByte(',')
		}
	}
	if end < len(tail) {
		if tail[end].IsPunct(';') {
			f.buf.WriteByte(';')
			return
		}
		f.buf.WriteByte('\n')
		f.indent(depth)
		f.brace(tail[end], depth)
	}
}

// inline writes tokens on one line, but brace groups are broken into blocks
func (f *formatter) inline(s Stream, depth int) {
	roles := classify(s)
	var run Stream
	flushRun := func() {
		if len(run) > 0 {
			f.buf.WriteString(run.String())
			run = nil
		}
	}
	for i, cur := range roles {
		if cur.tree.IsGroup(DelimBrace) && len(cur.tree.Stream) > 0 {
			flushRun()
			if i > 0 {
				f.buf.WriteByte(' ')
			}
			f.brace(cur.tree, depth)
			if i+1 < len(roles) && roles[i+1].role != roleSeparator && roles[i+1].role != roleTight {
				f.buf.WriteByte(' ')
			}
			continue
		}
		run = append(run, cur.tree)
	}
	flushRun()
}

func (f *formatter) brace(t Tree, depth int) {
	if len(t.Stream) == 0 {
		f.buf.WriteString("{}")
		return
	}
	f.buf.WriteString("{\n")
	f.block(t.Stream, depth+1, false)
	f.indent(depth)
	f.buf.WriteString("}")
}
