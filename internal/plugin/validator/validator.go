// Package validator checks plugins against the Claude Code plugin
// conventions: manifest metadata, skill frontmatter, command
// frontmatter, and allowed-tools declarations.
package validator

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vendocli/vendo/internal/plugin"
	"github.com/vendocli/vendo/internal/plugin/toolperm"
)

const (
	maxNameLength        = 64
	maxDescriptionLength = 1024
)

// nameRegex matches dash-separated lowercase alphanumeric names.
var nameRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// versionRegex matches a bare or v-prefixed semver-ish version.
var versionRegex = regexp.MustCompile(`^v?\d+\.\d+(\.\d+)?([-+][0-9A-Za-z.-]+)?$`)

// Validator validates plugins. The zero value applies the baseline
// rules; strict mode adds checks that most published plugins satisfy
// but that are not required for Claude Code to load them.
type Validator struct {
	strict bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithStrict enables strict validation: versions must be present and
// well-formed, and every skill and command must declare allowed-tools.
func WithStrict() Option {
	return func(v *Validator) { v.strict = true }
}

// New returns a Validator with the given options applied.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks a loaded plugin and returns all failures found.
func (v *Validator) Validate(p *plugin.Plugin) *Result {
	res := &Result{}

	v.validateManifest(p, res)

	seen := make(map[string]string)
	for i := range p.Skills {
		v.validateSkill(&p.Skills[i], res)
		ctx := skillContext(&p.Skills[i])
		if prev, ok := seen[p.Skills[i].Name]; ok {
			res.add("name", "duplicate skill name, already declared in "+prev, p.Skills[i].Name, ctx)
		} else {
			seen[p.Skills[i].Name] = ctx
		}
	}

	cmdSeen := make(map[string]bool)
	for i := range p.Commands {
		v.validateCommand(&p.Commands[i], res)
		if cmdSeen[p.Commands[i].Name] {
			res.add("name", "duplicate command name", p.Commands[i].Name, commandContext(&p.Commands[i]))
		}
		cmdSeen[p.Commands[i].Name] = true
	}

	return res
}

func (v *Validator) validateManifest(p *plugin.Plugin, res *Result) {
	m := &p.Manifest
	ctx := "plugin.json"

	v.checkName(m.Name, ctx, res)

	if m.Description == "" {
		res.add("description", "description is required", "", ctx)
	} else if len(m.Description) > maxDescriptionLength {
		res.add("description", fmt.Sprintf("description exceeds %d characters", maxDescriptionLength), "", ctx)
	}

	if m.Version != "" && !versionRegex.MatchString(m.Version) {
		res.add("version", "version is not a valid semantic version", m.Version, ctx)
	}
	if v.strict && m.Version == "" {
		res.add("version", "version is required in strict mode", "", ctx)
	}
}

func (v *Validator) validateSkill(s *plugin.Skill, res *Result) {
	ctx := skillContext(s)

	v.checkName(s.Name, ctx, res)

	// Skill directories must match the frontmatter name so Claude Code
	// resolves them consistently.
	if s.Path != "" && s.Name != "" {
		dir := filepath.Base(filepath.Dir(s.Path))
		if dir != s.Name {
			res.add("name", fmt.Sprintf("skill name must match its directory %q", dir), s.Name, ctx)
		}
	}

	if s.Description == "" {
		res.add("description", "description is required", "", ctx)
	} else if len(s.Description) > maxDescriptionLength {
		res.add("description", fmt.Sprintf("description exceeds %d characters", maxDescriptionLength), "", ctx)
	}

	if s.Instructions == "" {
		res.add("body", "skill has no instructions after the frontmatter", "", ctx)
	}

	v.checkTools(s.AllowedTools, ctx, res)
}

func (v *Validator) validateCommand(c *plugin.Command, res *Result) {
	ctx := commandContext(c)

	if !nameRegex.MatchString(c.Name) {
		res.add("name", "command file name must be lowercase alphanumeric with dashes", c.Name, ctx)
	}
	if c.Body == "" {
		res.add("body", "command has no content", "", ctx)
	}
	if len(c.Description) > maxDescriptionLength {
		res.add("description", fmt.Sprintf("description exceeds %d characters", maxDescriptionLength), "", ctx)
	}

	v.checkTools(c.AllowedTools, ctx, res)
}

func (v *Validator) checkName(name, ctx string, res *Result) {
	switch {
	case name == "":
		res.add("name", "name is required", "", ctx)
	case len(name) > maxNameLength:
		res.add("name", fmt.Sprintf("name exceeds %d characters", maxNameLength), name, ctx)
	case !nameRegex.MatchString(name):
		res.add("name", "name must be lowercase alphanumeric with dashes", name, ctx)
	}
}

func (v *Validator) checkTools(decl, ctx string, res *Result) {
	perms, err := toolperm.Parse(decl)
	if err != nil {
		res.add("allowed-tools", err.Error(), "", ctx)
		return
	}
	if v.strict && len(perms) == 0 {
		res.add("allowed-tools", "allowed-tools is required in strict mode", "", ctx)
	}
}

func skillContext(s *plugin.Skill) string {
	if s.Path != "" {
		return s.Path
	}
	return "skill " + s.Name
}

func commandContext(c *plugin.Command) string {
	if c.Path != "" {
		return c.Path
	}
	return "command " + c.Name
}

// Describe summarizes a result as one line per error, for CLI output.
func Describe(res *Result) string {
	if res.Valid() {
		return "valid"
	}
	lines := make([]string, len(res.Errors))
	for i, e := range res.Errors {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}
