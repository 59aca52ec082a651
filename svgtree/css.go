package svgtree

import (
	"fmt"
	"strings"
)

// Declaration is one "property: value" pair from an inline style.
type Declaration struct {
	Property, Value string
}

// ParseDeclarations splits inline style text into declarations.
// Declarations whose property the allow func rejects are returned
// verbatim in leftover, joined with "; " and ";"-terminated, so the
// caller can keep the unhandled remainder on the element. A nil allow
// accepts everything. A declaration that does not split into exactly
// one property and one value is a syntax error.
func ParseDeclarations(style string, allow func(property string) bool) ([]Declaration, string, error) {
	var (
		decls    []Declaration
		leftover []string
	)
	for _, raw := range strings.Split(style, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, ":")
		if len(parts) != 2 {
			return nil, "", fmt.Errorf("svgtree: invalid CSS declaration %q", raw)
		}
		prop := strings.TrimSpace(parts[0])
		if allow != nil && !allow(prop) {
			leftover = append(leftover, raw)
			continue
		}
		decls = append(decls, Declaration{prop, strings.TrimSpace(parts[1])})
	}
	rest := ""
	if len(leftover) > 0 {
		rest = strings.Join(leftover, "; ") + ";"
	}
	return decls, rest, nil
}
