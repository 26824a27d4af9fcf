package marketplace

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/plugin"
	"github.com/vendocli/vendo/internal/plugin/validator"
)

// ErrNotInstalled is returned when removing a plugin that is not present.
var ErrNotInstalled = errors.New("plugin not installed")

// Installer copies plugins from marketplace checkouts into the Claude
// Code plugin directory.
type Installer struct {
	installDir string
}

// NewInstaller creates an installer targeting installDir, normally
// paths.PluginInstallDir().
func NewInstaller(installDir string) *Installer {
	return &Installer{installDir: installDir}
}

// Install validates the plugin at srcDir and copies it into the
// install directory under its manifest name. The copy goes through a
// staging directory and lands with a rename, so a failed install never
// leaves a half-written plugin behind. An existing install of the same
// plugin is replaced.
func (in *Installer) Install(srcDir string) (*plugin.Plugin, error) {
	p, err := plugin.Load(srcDir)
	if err != nil {
		return nil, err
	}

	if res := validator.New().Validate(p); !res.Valid() {
		return nil, errors.Newf("plugin %q failed validation:\n%s", p.Manifest.Name, validator.Describe(res))
	}

	if err := os.MkdirAll(in.installDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating plugin directory")
	}

	staging, err := os.MkdirTemp(in.installDir, ".staging-"+p.Manifest.Name+"-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating staging directory")
	}
	defer os.RemoveAll(staging)

	if err := copyTree(srcDir, staging); err != nil {
		return nil, errors.Wrap(err, "staging plugin files")
	}

	dest := filepath.Join(in.installDir, p.Manifest.Name)
	if err := os.RemoveAll(dest); err != nil {
		return nil, errors.Wrap(err, "removing previous install")
	}
	if err := os.Rename(staging, dest); err != nil {
		return nil, errors.Wrap(err, "moving plugin into place")
	}

	p.Dir = dest
	return p, nil
}

// Remove deletes an installed plugin by name.
func (in *Installer) Remove(name string) error {
	dest := filepath.Join(in.installDir, name)
	if _, err := plugin.ManifestPath(dest); err != nil {
		return errors.WithDetail(ErrNotInstalled, name)
	}
	return os.RemoveAll(dest)
}

// Installed loads all plugins currently installed.
func (in *Installer) Installed() ([]*plugin.Plugin, error) {
	return plugin.ListInstalled(in.installDir)
}

// copyTree recursively copies src into dst, preserving file modes.
// Symlinks are skipped; plugin content is plain files.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			if rel == "." {
				return nil
			}
			return os.MkdirAll(target, 0o755)
		case !d.Type().IsRegular():
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
