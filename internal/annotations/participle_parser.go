package annotations

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/tokens"
)

// ParticipleParser parses attribute argument lists using alecthomas/participle
type ParticipleParser struct {
	parser    *participle.Parser[AttributeArgs]
	registry  AnnotationRegistry
	validator SchemaValidator
}

// AttributeArgs is the argument list of an attribute:
// `provider = FooProvider, name = FooComponent<T>` or `Clone, HasField`.
type AttributeArgs struct {
	Entries []*AttributeEntry `parser:"( @@ ( ',' @@ )* ','? )?"`
}

// AttributeEntry is either `key: value`, `key = value` or a bare path
type AttributeEntry struct {
	Pos   lexer.Position
	Keyed *KeyedEntry `parser:"  @@"`
	Bare  *PathEntry  `parser:"| @@"`
}

// KeyedEntry is a named parameter
type KeyedEntry struct {
	Key   string     `parser:"@Ident (':' | '=')"`
	Value *PathEntry `parser:"@@"`
}

// PathEntry is a path with optional generic parameters
type PathEntry struct {
	Name   string   `parser:"@Ident ( @PathSep @Ident )*"`
	Params []string `parser:"( '<' @Ident ( ',' @Ident )* ','? '>' )?"`
}

func (p *PathEntry) value() PathValue {
	return PathValue{Name: p.Name, Params: p.Params}
}

var attributeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "PathSep", Pattern: `::`},
	{Name: "Punct", Pattern: `[:=,<>]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// NewParticipleParser creates a new parser using participle
func NewParticipleParser(registry AnnotationRegistry) *ParticipleParser {
	parser := participle.MustBuild[AttributeArgs](
		participle.Lexer(attributeLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)

	return &ParticipleParser{
		parser:    parser,
		registry:  registry,
		validator: NewValidator(),
	}
}

var (
	defaultParser     *ParticipleParser
	defaultParserOnce sync.Once
)

// DefaultParser returns a parser bound to the default registry
func DefaultParser() *ParticipleParser {
	defaultParserOnce.Do(func() {
		defaultParser = NewParticipleParser(DefaultRegistry())
	})
	return defaultParser
}

// ParseAttribute parses the arguments of the attribute called name.
// Defaults are applied and the result is validated against the schema.
func (p *ParticipleParser) ParseAttribute(name string, args tokens.Stream, span tokens.Span) (*ParsedAnnotation, error) {
	annotationType, err := p.parseAnnotationType(name)
	if err != nil {
		return nil, attributeError(name, "", err.Error(), span)
	}

	raw := args.String()
	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Name:       name,
		Parameters: make(map[string]interface{}),
		Location:   span,
		Raw:        raw,
	}

	ast, err := p.parser.ParseString(span.File, raw)
	if err != nil {
		return nil, p.syntaxError(parsed, err)
	}

	var positional []PathValue
	for _, entry := range ast.Entries {
		if entry.Bare != nil {
			positional = append(positional, entry.Bare.value())
			parsed.Positional = append(parsed.Positional, entry.Bare.value().String())
			continue
		}
		key := entry.Keyed.Key
		if parsed.HasParameter(key) {
			return nil, attributeError(name, key, fmt.Sprintf("parameter `%s` is given more than once", key), span)
		}
		value, err := p.convertParameterValue(key, entry.Keyed.Value.value(), annotationType)
		if err != nil {
			return nil, attributeError(name, key, err.Error(), span)
		}
		parsed.Parameters[key] = value
	}

	if err := p.handlePositionalParameters(parsed, positional); err != nil {
		return nil, err
	}

	if p.registry != nil {
		if err := p.validateAgainstSchema(parsed); err != nil {
			return nil, err
		}
	}
	return parsed, nil
}

func attributeError(name, key, message string, span tokens.Span) *errors.AttributeError {
	err := errors.NewAttributeError(name, key, message)
	err.WithLocation(span.Location())
	return err
}

func (p *ParticipleParser) syntaxError(parsed *ParsedAnnotation, err error) error {
	msg := err.Error()
	if perr, ok := err.(participle.Error); ok {
		msg = perr.Message()
	}
	attrErr := errors.NewAttributeError(parsed.Name, "", fmt.Sprintf("malformed #[%s] arguments: %s", parsed.Name, msg))
	attrErr.WithLocation(parsed.Location.Location()).WithCause(err)
	if p.registry != nil {
		if schema, serr := p.registry.GetSchema(parsed.Type); serr == nil {
			attrErr.WithSuggestions(schema.Examples...)
		}
	}
	return attrErr
}

// convertParameterValue converts a value to the type the schema declares
func (p *ParticipleParser) convertParameterValue(key string, value PathValue, annotationType AnnotationType) (interface{}, error) {
	if p.registry == nil {
		return value, nil
	}
	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return value, nil
	}
	paramSpec, exists := schema.Parameters[key]
	if !exists {
		return value.String(), nil
	}

	switch paramSpec.Type {
	case IdentType:
		if len(value.Params) > 0 {
			return nil, fmt.Errorf("`%s` expects a plain identifier, got `%s`", key, value)
		}
		return value.Name, nil
	case IdentListType:
		return append([]string{value.Name}, value.Params...), nil
	default:
		return value, nil
	}
}

// parseAnnotationType converts the attribute name to AnnotationType
func (p *ParticipleParser) parseAnnotationType(name string) (AnnotationType, error) {
	annotationType, err := ParseAnnotationType(name)
	if err != nil {
		return ComponentAnnotation, err
	}
	if p.registry != nil && !p.registry.IsRegistered(annotationType) {
		return ComponentAnnotation, fmt.Errorf("annotation type '%s' is not registered in schema registry", name)
	}
	return annotationType, nil
}

// handlePositionalParameters assigns bare entries based on annotation type
func (p *ParticipleParser) handlePositionalParameters(annotation *ParsedAnnotation, positional []PathValue) error {
	if len(positional) == 0 {
		return nil
	}

	switch annotation.Type {
	case ComponentAnnotation:
		// older form: `FooComponent, FooProvider<Context>`
		if len(positional) != 2 || len(annotation.Parameters) > 0 {
			return attributeError(annotation.Name, "",
				"positional arguments must be exactly `ComponentName, ProviderName<Context>` and cannot be mixed with named parameters",
				annotation.Location)
		}
		annotation.Parameters["name"] = positional[0]
		annotation.Parameters["provider"] = positional[1].Name
		if len(positional[1].Params) > 0 {
			annotation.Parameters["context"] = positional[1].Params[0]
		}
	case DeriveAnnotation:
		names := make([]string, 0, len(positional))
		for _, v := range positional {
			names = append(names, v.String())
		}
		annotation.Parameters["traits"] = names
	}
	return nil
}

func (p *ParticipleParser) validateAgainstSchema(annotation *ParsedAnnotation) error {
	schema, err := p.registry.GetSchema(annotation.Type)
	if err != nil {
		return err
	}
	if err := p.validator.ApplyDefaults(annotation, schema); err != nil {
		return err
	}
	return p.validator.Validate(annotation, schema)
}

// HasDerive reports whether a derive annotation lists the trait name
func HasDerive(annotation *ParsedAnnotation, trait string) bool {
	for _, name := range annotation.GetStringSlice("traits") {
		if name == trait || strings.HasSuffix(name, "::"+trait) {
			return true
		}
	}
	return false
}
