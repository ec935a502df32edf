package gits

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ManifestName is the archive entry holding the serialized deletion list.
// The compute runner looks it up by this exact name.
const ManifestName = ".gits-manifest.json"

// Manifest is the deletion list embedded in the artifact. The receiving side
// obtains the packaged files by unpacking the archive, so only deletions need
// an explicit record.
type Manifest struct {
	Deleted []string `json:"deleted"`
}

// BuildArchive packages the change-set into a zip in the system scratch
// directory and returns its path. Every file in cs.Files is stored at its
// repository-relative path, read from root; the manifest is added as one
// generated entry. Any read failure aborts and removes the partial archive.
//
// The archive is transient: the caller must remove it once the submission
// round trip completes, whatever the verdict.
func BuildArchive(cs *ChangeSet, root string) (string, error) {
	tmp, err := os.CreateTemp("", "gits-changes-*.zip")
	if err != nil {
		return "", fmt.Errorf("creating archive file: %w", err)
	}

	if err := writeArchive(tmp, cs, root); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing archive: %w", err)
	}

	return tmp.Name(), nil
}

func writeArchive(w io.Writer, cs *ChangeSet, root string) error {
	zw := zip.NewWriter(w)

	for _, rel := range cs.Files {
		if err := addFile(zw, root, rel); err != nil {
			zw.Close()
			return err
		}
	}

	manifest, err := json.Marshal(Manifest{Deleted: append([]string{}, cs.Deletions...)})
	if err != nil {
		zw.Close()
		return fmt.Errorf("encoding manifest: %w", err)
	}
	entry, err := zw.Create(ManifestName)
	if err != nil {
		zw.Close()
		return fmt.Errorf("adding manifest entry: %w", err)
	}
	if _, err := entry.Write(manifest); err != nil {
		zw.Close()
		return fmt.Errorf("writing manifest entry: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, root, rel string) error {
	f, err := os.Open(filepath.Join(root, rel))
	if err != nil {
		return fmt.Errorf("adding %s to archive: %w", rel, err)
	}
	defer f.Close()

	// Entry names keep the repository-relative path with forward slashes.
	entry, err := zw.Create(filepath.ToSlash(rel))
	if err != nil {
		return fmt.Errorf("adding %s to archive: %w", rel, err)
	}
	if _, err := io.Copy(entry, f); err != nil {
		return fmt.Errorf("adding %s to archive: %w", rel, err)
	}
	return nil
}
