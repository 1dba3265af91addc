package annotations

import (
	"fmt"
	"regexp"
	"strings"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reserved words that cannot name a generated trait, struct or type parameter
var reservedIdents = map[string]bool{
	"Self": true, "self": true, "super": true, "crate": true, "_": true,
	"as": true, "async": true, "await": true, "const": true, "dyn": true,
	"enum": true, "fn": true, "for": true, "impl": true, "let": true,
	"mod": true, "mut": true, "pub": true, "ref": true, "static": true,
	"struct": true, "trait": true, "type": true, "unsafe": true,
	"use": true, "where": true,
}

// ValidateIdent checks that the value is a usable identifier
func ValidateIdent(v interface{}) error {
	name, ok := v.(string)
	if !ok {
		return fmt.Errorf("must be an identifier, got %T", v)
	}
	if !identPattern.MatchString(name) {
		return fmt.Errorf("'%s' is not a valid identifier", name)
	}
	if reservedIdents[name] {
		return fmt.Errorf("'%s' is a reserved word", name)
	}
	return nil
}

// ValidatePath checks the name and every parameter of a path value
func ValidatePath(v interface{}) error {
	path, ok := v.(PathValue)
	if !ok {
		return fmt.Errorf("must be an identifier with optional parameters, got %T", v)
	}
	if err := ValidateIdent(path.Name); err != nil {
		return err
	}
	seen := make(map[string]bool, len(path.Params))
	for _, p := range path.Params {
		if err := ValidateIdent(p); err != nil {
			return err
		}
		if seen[p] {
			return fmt.Errorf("parameter '%s' is listed twice", p)
		}
		seen[p] = true
	}
	return nil
}

// ValidateIdentList checks every element of a list of identifiers or
// `::`-separated paths
func ValidateIdentList(v interface{}) error {
	names, ok := v.([]string)
	if !ok {
		return fmt.Errorf("must be an identifier list, got %T", v)
	}
	for _, name := range names {
		for _, segment := range strings.Split(name, "::") {
			if segment == "crate" || segment == "self" || segment == "super" {
				continue
			}
			if err := ValidateIdent(segment); err != nil {
				return err
			}
		}
	}
	return nil
}

// ProviderParameterSpec returns the spec for the provider trait name
func ProviderParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        IdentType,
		Required:    true,
		Description: "Name of the generated provider trait",
		Validator:   ValidateIdent,
	}
}

// ContextParameterSpec returns the spec for the context type parameter
func ContextParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:         IdentType,
		Required:     false,
		DefaultValue: "Context",
		Description:  "Name of the context type parameter added to the provider trait",
		Validator:    ValidateIdent,
	}
}

// ComponentNameParameterSpec returns the spec for the component marker name
func ComponentNameParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        PathType,
		Required:    false,
		Description: "Name and parameters of the component marker struct (defaults to <Provider>Component)",
		Validator:   ValidatePath,
	}
}

// TraitsParameterSpec returns the spec for the trait list of a derive
func TraitsParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        IdentListType,
		Required:    true,
		Description: "Traits to derive",
		Validator:   ValidateIdentList,
	}
}
