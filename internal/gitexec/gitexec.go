// Package gitexec implements the gits.Repository and gits.Worktree
// capabilities by shelling out to the git binary.
package gitexec

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repo wraps the git binary for a single working tree.
type Repo struct {
	root string
}

// Open locates the repository containing dir. It fails when dir is not
// inside a git working tree.
func Open(dir string) (*Repo, error) {
	out, err := run(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %s", dir)
	}
	return &Repo{root: out}, nil
}

// Root returns the absolute path of the working tree root.
func (r *Repo) Root() string { return r.root }

// StatusReport runs `git status --porcelain -M` and returns its raw output.
// The -M flag enables rename detection so moves appear as "R  old -> new".
func (r *Repo) StatusReport() (string, error) {
	out, err := run(r.root, "status", "--porcelain", "-M")
	if err != nil {
		return "", fmt.Errorf("git status: %w", err)
	}
	return out, nil
}

// RemoteURL returns the URL of the origin remote.
func (r *Repo) RemoteURL() (string, error) {
	out, err := run(r.root, "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("reading origin remote (is 'origin' configured?): %w", err)
	}
	return out, nil
}

// Exists reports whether the repository-relative path is a regular file on disk.
func (r *Repo) Exists(relativePath string) bool {
	info, err := os.Stat(filepath.Join(r.root, relativePath))
	return err == nil && info.Mode().IsRegular()
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("%s", strings.TrimSpace(string(ee.Stderr)))
		}
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}
