// Package plugin models Claude Code plugins: a manifest plus bundled
// skills and slash commands.
package plugin

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/pkg/fileutil"
	"github.com/vendocli/vendo/pkg/frontmatter"
)

// ManifestDir is the directory holding the plugin manifest.
const ManifestDir = ".claude-plugin"

// ManifestFile is the plugin manifest file name.
const ManifestFile = "plugin.json"

// Sentinel errors for plugin loading.
var (
	ErrNoManifest = errors.New("plugin manifest not found")
	ErrNotFound   = errors.New("plugin not found")
)

// Manifest is the plugin.json metadata.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version,omitempty"`
	Description string   `json:"description,omitempty"`
	Author      *Author  `json:"author,omitempty"`
	Homepage    string   `json:"homepage,omitempty"`
	License     string   `json:"license,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Author identifies the plugin author.
type Author struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Skill is a parsed SKILL.md: YAML frontmatter plus markdown instructions.
type Skill struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	AllowedTools string `yaml:"allowed-tools,omitempty"`
	License      string `yaml:"license,omitempty"`

	// Instructions is the markdown body after the frontmatter.
	Instructions string `yaml:"-"`

	// Path is where the skill was loaded from, for error context.
	Path string `yaml:"-"`
}

// Command is a parsed slash-command markdown file.
// Frontmatter is optional for commands.
type Command struct {
	Description  string `yaml:"description,omitempty"`
	ArgumentHint string `yaml:"argument-hint,omitempty"`
	AllowedTools string `yaml:"allowed-tools,omitempty"`

	// Name is derived from the file name, not the frontmatter.
	Name string `yaml:"-"`

	// Body is the markdown body.
	Body string `yaml:"-"`

	// Path is where the command was loaded from.
	Path string `yaml:"-"`
}

// Plugin is a fully loaded plugin directory.
type Plugin struct {
	Manifest Manifest
	Skills   []Skill
	Commands []Command

	// Dir is the plugin's root directory.
	Dir string
}

// ManifestPath returns the manifest location under a plugin directory.
// The canonical location is .claude-plugin/plugin.json; a bare
// plugin.json at the root is accepted for older plugins.
func ManifestPath(dir string) (string, error) {
	canonical := filepath.Join(dir, ManifestDir, ManifestFile)
	if _, err := os.Stat(canonical); err == nil {
		return canonical, nil
	}
	legacy := filepath.Join(dir, ManifestFile)
	if _, err := os.Stat(legacy); err == nil {
		return legacy, nil
	}
	return "", errors.WithDetail(ErrNoManifest, dir)
}

// Load reads a plugin directory: manifest, skills, and commands.
func Load(dir string) (*Plugin, error) {
	manifestPath, err := ManifestPath(dir)
	if err != nil {
		return nil, err
	}

	data, err := fileutil.ReadFileWithLimit(manifestPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading plugin manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", manifestPath)
	}
	if manifest.Name == "" {
		manifest.Name = filepath.Base(dir)
	}

	p := &Plugin{Manifest: manifest, Dir: dir}

	if p.Skills, err = loadSkills(filepath.Join(dir, "skills")); err != nil {
		return nil, err
	}
	if p.Commands, err = loadCommands(filepath.Join(dir, "commands")); err != nil {
		return nil, err
	}

	return p, nil
}

// loadSkills reads skills/<name>/SKILL.md entries.
func loadSkills(dir string) ([]Skill, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "listing skills")
	}

	var skills []Skill
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name(), "SKILL.md")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		skill, err := ParseSkillFile(path)
		if err != nil {
			return nil, err
		}
		skills = append(skills, *skill)
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

// loadCommands reads commands/*.md entries.
func loadCommands(dir string) ([]Command, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "listing commands")
	}

	var commands []Command
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		cmd, err := ParseCommandFile(path)
		if err != nil {
			return nil, err
		}
		commands = append(commands, *cmd)
	}
	sort.Slice(commands, func(i, j int) bool { return commands[i].Name < commands[j].Name })
	return commands, nil
}

// ParseSkillFile reads and parses a SKILL.md file.
// Frontmatter is required for skills.
func ParseSkillFile(path string) (*Skill, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading skill %s", path)
	}
	return ParseSkillBytes(data, path)
}

// ParseSkillBytes parses SKILL.md content.
// The path parameter is used for error context only.
func ParseSkillBytes(data []byte, path string) (*Skill, error) {
	var skill Skill
	body, err := frontmatter.MustParse(bytes.NewReader(data), &skill)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing skill %s", path)
	}
	skill.Instructions = strings.TrimSpace(string(body))
	skill.Path = path
	return &skill, nil
}

// ParseCommandFile reads and parses a command markdown file.
// Frontmatter is optional for commands.
func ParseCommandFile(path string) (*Command, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading command %s", path)
	}

	var cmd Command
	body, err := frontmatter.Parse(bytes.NewReader(data), &cmd)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing command %s", path)
	}
	cmd.Body = strings.TrimSpace(string(body))
	cmd.Name = strings.TrimSuffix(filepath.Base(path), ".md")
	cmd.Path = path
	return &cmd, nil
}

// ListInstalled loads every plugin under the install directory.
// Directories without a manifest are skipped rather than failing the
// whole listing.
func ListInstalled(installDir string) ([]*Plugin, error) {
	entries, err := os.ReadDir(installDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "listing installed plugins")
	}

	var plugins []*Plugin
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p, err := Load(filepath.Join(installDir, e.Name()))
		if err != nil {
			if errors.Is(err, ErrNoManifest) {
				continue
			}
			return nil, err
		}
		plugins = append(plugins, p)
	}
	sort.Slice(plugins, func(i, j int) bool { return plugins[i].Manifest.Name < plugins[j].Manifest.Name })
	return plugins, nil
}
