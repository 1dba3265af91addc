package expander

import (
	"github.com/toyz/cgp/internal/annotations"
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// attributeInvocation recognises an attribute macro on item. The attribute
// is removed from the body handed to the generator; other attributes stay.
func (e *Expander) attributeInvocation(item syntax.Item) (models.Invocation, bool, error) {
	if i := syntax.FindAttribute(item.Attrs, e.macros.attributeNames()...); i >= 0 {
		attr := item.Attrs[i]
		kind := e.macros.attributes[attr.ShortName()]
		span := attr.Body.Span

		if kind != models.MacroKindComponent {
			// marker attributes take no arguments
			if _, err := e.attrs.ParseAttribute(kind.String(), attr.ArgsInner(), span); err != nil {
				return models.Invocation{}, false, err
			}
		}

		body := syntax.Item{Attrs: syntax.RemoveAttribute(item.Attrs, i), Stream: item.Stream}
		return models.Invocation{
			Kind: kind,
			Name: attr.ShortName(),
			Attr: attr.ArgsInner(),
			Body: body.Tokens(),
			Span: item.Span,
		}, true, nil
	}

	return e.deriveInvocation(item)
}

// deriveInvocation recognises `HasField` in a `#[derive(..)]` list. The
// remaining derives are kept on the struct.
func (e *Expander) deriveInvocation(item syntax.Item) (models.Invocation, bool, error) {
	i := syntax.FindAttribute(item.Attrs, "derive")
	if i < 0 {
		return models.Invocation{}, false, nil
	}
	attr := item.Attrs[i]
	if !tokens.Contains(attr.ArgsInner(), tokens.Stream{tokens.Ident("HasField")}) {
		return models.Invocation{}, false, nil
	}
	parsed, err := e.attrs.ParseAttribute("derive", attr.ArgsInner(), attr.Body.Span)
	if err != nil {
		return models.Invocation{}, false, err
	}
	if !annotations.HasDerive(parsed, "HasField") {
		return models.Invocation{}, false, nil
	}

	var kept []tokens.Stream
	for _, path := range tokens.SplitTop(attr.ArgsInner(), ',') {
		if name, ok := syntax.PathName(path); ok && name.Text == "HasField" {
			continue
		}
		kept = append(kept, path)
	}

	attrs := syntax.RemoveAttribute(item.Attrs, i)
	if len(kept) > 0 {
		derive := syntax.NewAttribute(tokens.Stream{
			tokens.Ident("derive"),
			tokens.Group(tokens.DelimParen, tokens.Join(kept, ",")),
		})
		attrs = append(attrs[:i:i], append([]syntax.Attribute{derive}, attrs[i:]...)...)
	}

	body := syntax.Item{Attrs: attrs, Stream: item.Stream}
	return models.Invocation{
		Kind: models.MacroKindDeriveFields,
		Name: models.MacroKindDeriveFields.String(),
		Body: body.Tokens(),
		Span: item.Span,
	}, true, nil
}
