package testutil

import "sync"

// FakeRepo supplies canned status report text and remote URL without
// invoking a real git binary. It satisfies gits.Repository.
type FakeRepo struct {
	Report    string
	Remote    string
	ReportErr error
	RemoteErr error
}

func (r *FakeRepo) StatusReport() (string, error) {
	if r.ReportErr != nil {
		return "", r.ReportErr
	}
	return r.Report, nil
}

func (r *FakeRepo) RemoteURL() (string, error) {
	if r.RemoteErr != nil {
		return "", r.RemoteErr
	}
	return r.Remote, nil
}

// FakeWorktree is a set of paths that "exist on disk". It satisfies
// gits.Worktree. Safe for concurrent use.
type FakeWorktree struct {
	mu    sync.Mutex
	files map[string]bool
}

// NewFakeWorktree creates a FakeWorktree containing the given paths.
func NewFakeWorktree(paths ...string) *FakeWorktree {
	wt := &FakeWorktree{files: make(map[string]bool)}
	for _, p := range paths {
		wt.files[p] = true
	}
	return wt
}

// Add marks a path as existing.
func (w *FakeWorktree) Add(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = true
}

func (w *FakeWorktree) Exists(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[path]
}
