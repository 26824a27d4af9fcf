// Package git wraps the git CLI for cloning and updating marketplace
// repositories.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// scpLikeRegex matches scp-style remotes such as git@github.com:user/repo.git.
var scpLikeRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9._-]+:[^:]+\.git$`)

// allowedSchemes are the URL schemes git may be invoked with. Schemes
// like ext:: can execute arbitrary commands and are rejected.
var allowedSchemes = map[string]bool{
	"https": true,
	"http":  true,
	"ssh":   true,
	"git":   true,
	"file":  true,
}

// IsURL reports whether s looks like a git remote rather than a local
// path or a bare marketplace name.
func IsURL(s string) bool {
	if strings.Contains(s, "://") {
		return true
	}
	if strings.HasPrefix(s, "git@") {
		return true
	}
	return strings.HasSuffix(s, ".git")
}

// ValidateURL rejects remotes that could be interpreted as git options
// or alternate transports. Accepted forms are scheme://... with an
// allowed scheme, or an scp-like user@host:path.git remote.
func ValidateURL(url string) error {
	if url == "" {
		return errors.New("empty repository URL")
	}
	if strings.HasPrefix(url, "-") {
		return errors.Newf("invalid repository URL: %s", url)
	}
	if scheme, _, ok := strings.Cut(url, "://"); ok {
		if !allowedSchemes[scheme] {
			return errors.Newf("unsupported URL scheme %q", scheme)
		}
		return nil
	}
	if scpLikeRegex.MatchString(url) {
		return nil
	}
	return errors.Newf("invalid repository URL: %s", url)
}

// Clone clones url into dest at the given depth. Output streams to the
// terminal and stdin stays connected so credential prompts work.
func Clone(url, dest string, depth int) error {
	if err := ValidateURL(url); err != nil {
		return err
	}
	cmd := exec.Command("git", "clone", fmt.Sprintf("--depth=%d", depth), "--", url, dest)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "git clone failed")
	}
	return nil
}

// Pull performs a fast-forward-only pull in repoPath. Stdin stays
// connected for interactive authentication.
func Pull(repoPath string) error {
	cmd := exec.Command("git", "-C", repoPath, "pull", "--ff-only")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "git pull failed")
	}
	return nil
}

// HeadCommit returns the short hash of HEAD in repoPath.
func HeadCommit(repoPath string) (string, error) {
	out, err := exec.Command("git", "-C", repoPath, "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", errors.Wrap(err, "git rev-parse failed")
	}
	return strings.TrimSpace(string(out)), nil
}

// ValidateRemote checks that repoPath contains a git checkout.
func ValidateRemote(repoPath string) error {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf("not a git repository: %s", repoPath)
		}
		return errors.Wrap(err, "checking git directory")
	}
	if !info.IsDir() {
		return errors.Newf(".git is not a directory: %s", gitDir)
	}
	return nil
}
