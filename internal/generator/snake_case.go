package generator

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a camel-case identifier such as `MyContext` into
// `my_context`. An underscore is inserted before every upper-case letter
// that does not follow an underscore or start the name.
func ToSnakeCase(name string) string {
	var b strings.Builder
	prev := '_'
	for _, ch := range name {
		if unicode.IsUpper(ch) && prev != '_' {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(ch))
		prev = ch
	}
	return b.String()
}
