package gits

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoChanges is returned when extraction finds nothing to package and
// nothing to delete. It is a user-visible outcome, not a failure to retry.
var ErrNoChanges = errors.New("no changes found")

// NotFoundError is returned when a caller-requested path exists neither on
// disk nor anywhere in the status report. Extraction aborts with no partial
// result.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// ChangeSet is the result of extraction: the files whose current content must
// be captured and the paths that must be removed at execution time. The two
// sets are disjoint; a rename contributes its new path to Files and its old
// path to Deletions. Both are sorted and free of duplicates.
type ChangeSet struct {
	Files     []string
	Deletions []string
}

// rename is the parsed old/new pair of an "XY old -> new" status line.
type rename struct {
	oldPath string
	newPath string
}

// statusLine is one classified line of the porcelain report.
type statusLine struct {
	x, y byte
	path string
}

// ExtractChangeSet derives a ChangeSet from a porcelain status report.
//
// With an empty requested list, every added/modified/untracked path is
// packaged, every deletion and rename old side goes to Deletions, and rename
// new sides are packaged when they exist on disk.
//
// With a non-empty requested list, each requested path must exist on disk,
// be a deletion source, or be a side of a rename; otherwise extraction fails
// with a NotFoundError. Deletions are restricted to requested paths, and a
// rename is replayed only when both of its sides were requested.
//
// The extractor is read-only and idempotent for an unchanged report.
func ExtractChangeSet(report string, wt Worktree, requested []string) (*ChangeSet, error) {
	lines, renames, deleted := classify(report)

	files := make(map[string]bool)
	deletions := make(map[string]bool)

	if len(requested) > 0 {
		if err := restrict(requested, wt, renames, deleted, files, deletions); err != nil {
			return nil, err
		}
	} else {
		for _, l := range lines {
			if autoPackaged(l.x, l.y) {
				files[l.path] = true
			}
		}
		for _, r := range renames {
			if wt.Exists(r.newPath) {
				files[r.newPath] = true
			}
			deletions[r.oldPath] = true
		}
		for d := range deleted {
			deletions[d] = true
		}
	}

	// A path never appears in both sets; packaging wins since the content
	// on disk is the newer fact.
	for f := range files {
		delete(deletions, f)
	}

	if len(files) == 0 && len(deletions) == 0 {
		return nil, ErrNoChanges
	}

	return &ChangeSet{
		Files:     sortedKeys(files),
		Deletions: sortedKeys(deletions),
	}, nil
}

// classify makes a single pass over the report, splitting rename lines into
// their old/new sides and collecting deletion sources.
func classify(report string) (lines []statusLine, renames []rename, deleted map[string]bool) {
	deleted = make(map[string]bool)

	for _, raw := range strings.Split(report, "\n") {
		if len(raw) < 4 {
			continue
		}
		x, y := raw[0], raw[1]
		path := strings.TrimSpace(raw[3:])
		if path == "" {
			continue
		}

		if x == 'R' || y == 'R' {
			if oldPath, newPath, ok := strings.Cut(path, " -> "); ok {
				renames = append(renames, rename{oldPath: oldPath, newPath: newPath})
				continue
			}
		}
		if x == 'D' || y == 'D' {
			deleted[path] = true
			continue
		}
		lines = append(lines, statusLine{x: x, y: y, path: path})
	}
	return lines, renames, deleted
}

// autoPackaged reports whether a status code pair implies the path exists on
// disk and should be captured when no restriction list is given.
func autoPackaged(x, y byte) bool {
	switch {
	case x == 'A' && y == ' ':
		return true
	case x == 'M' && y == ' ':
		return true
	case x == ' ' && y == 'M':
		return true
	case x == 'M' && y == 'M':
		return true
	case x == '?' && y == '?':
		return true
	}
	return false
}

// restrict applies the caller's path list. Every requested path must be
// accounted for; a rename is honored only when both sides were requested.
func restrict(requested []string, wt Worktree, renames []rename, deleted map[string]bool, files, deletions map[string]bool) error {
	asked := make(map[string]bool, len(requested))
	for _, p := range requested {
		asked[p] = true
	}

	for _, p := range requested {
		switch {
		case wt.Exists(p):
			files[p] = true
		case deleted[p] || renameSide(p, renames):
			// Replayed through the manifest below.
		default:
			return &NotFoundError{Path: p}
		}
	}

	for d := range deleted {
		if asked[d] {
			deletions[d] = true
		}
	}

	for _, r := range renames {
		if !asked[r.oldPath] || !asked[r.newPath] {
			// An incompletely requested rename is ignored, not treated
			// as a delete plus add.
			continue
		}
		if wt.Exists(r.newPath) {
			files[r.newPath] = true
		}
		deletions[r.oldPath] = true
	}

	return nil
}

func renameSide(p string, renames []rename) bool {
	for _, r := range renames {
		if r.oldPath == p || r.newPath == p {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
