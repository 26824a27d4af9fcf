// Package toolperm parses allowed-tools declarations from skill and
// command frontmatter.
//
// A declaration is a space-delimited list of tool permissions. Each
// permission is a tool name, optionally scoped with a parenthesized
// specifier:
//
//	Read Write Bash(git:*) WebFetch(domain:docs.example.com)
package toolperm

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// Permission is one parsed tool permission.
type Permission struct {
	// Name is the tool name, e.g. "Bash".
	Name string

	// Scope is the optional parenthesized specifier, e.g. "git:*".
	// Empty means the tool is allowed without restriction.
	Scope string
}

// permRegex matches a tool name with an optional scope. Tool names are
// UpperCamelCase, matching how Claude Code names its tools.
var permRegex = regexp.MustCompile(`^([A-Z][a-zA-Z0-9]*)(?:\(([^)]+)\))?$`)

// ErrEmpty is returned when a declaration contains no permissions.
var ErrEmpty = errors.New("empty tool permission")

// ParseSingle parses one permission token.
func ParseSingle(token string) (Permission, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Permission{}, ErrEmpty
	}
	m := permRegex.FindStringSubmatch(token)
	if m == nil {
		return Permission{}, errors.Newf("invalid tool permission %q", token)
	}
	return Permission{Name: m[1], Scope: m[2]}, nil
}

// Parse parses a space-delimited allowed-tools declaration. An empty
// declaration yields no permissions and no error.
func Parse(decl string) ([]Permission, error) {
	fields := strings.Fields(decl)
	if len(fields) == 0 {
		return nil, nil
	}
	perms := make([]Permission, 0, len(fields))
	for _, f := range fields {
		p, err := ParseSingle(f)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, nil
}

// Format renders a permission back to its declaration form.
func Format(p Permission) string {
	if p.Scope == "" {
		return p.Name
	}
	return p.Name + "(" + p.Scope + ")"
}

// FormatAll renders permissions as a space-delimited declaration.
func FormatAll(perms []Permission) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = Format(p)
	}
	return strings.Join(parts, " ")
}
