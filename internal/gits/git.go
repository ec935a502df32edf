package gits

// Repository is the capability interface over the version-control tool.
// The extractor and submission client consume it; tests supply canned
// report text without invoking a real binary.
type Repository interface {
	// StatusReport returns the working tree status in porcelain format:
	// one line per change, two status characters, a space, then the path
	// (or "old -> new" for renames).
	StatusReport() (string, error)

	// RemoteURL returns the URL of the origin remote.
	RemoteURL() (string, error)
}

// Worktree probes the working tree. The extractor uses it to decide whether
// a path's current content can be captured. Read-only.
type Worktree interface {
	// Exists reports whether the repository-relative path refers to an
	// existing file on disk.
	Exists(relativePath string) bool
}
