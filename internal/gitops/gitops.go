package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Author identifies who commits ledger changes.
type Author struct {
	Name  string
	Email string
}

func (a Author) env() []string {
	return append(os.Environ(),
		"GIT_AUTHOR_NAME="+a.Name,
		"GIT_AUTHOR_EMAIL="+a.Email,
		"GIT_COMMITTER_NAME="+a.Name,
		"GIT_COMMITTER_EMAIL="+a.Email,
	)
}

func git(dir string, env []string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	_, err := git(dir, nil, "init", "--quiet")
	return err
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(dir string) bool {
	out, err := git(dir, nil, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// HasChanges reports whether anything under dir differs from HEAD,
// including untracked files.
func HasChanges(dir string) (bool, error) {
	out, err := git(dir, nil, "status", "--porcelain", "--untracked-files=all", "--", ".")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Commit stages everything under dir and commits only those paths.
// Returns the short commit hash.
func Commit(dir, message string, author Author) (string, error) {
	env := author.env()
	if _, err := git(dir, env, "add", "-A", "--", "."); err != nil {
		return "", err
	}
	if _, err := git(dir, env, "commit", "--quiet", "-m", message, "--", "."); err != nil {
		return "", err
	}
	return git(dir, env, "rev-parse", "--short", "HEAD")
}
