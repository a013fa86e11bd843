package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// archiveSuffixes are the filename suffixes recognized as submission
// archives, checked in order. The longest suffix is listed first so that
// "foo.tar.gz" strips to "foo" rather than "foo.tar".
var archiveSuffixes = []string{".tar.gz", ".tgz", ".tar"}

// ExtractError reports a failure to extract a single archive.
// The archive is skipped and the run continues; callers log the error and
// move on.
type ExtractError struct {
	// Archive is the path of the archive that could not be extracted.
	Archive string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to extract %q: %v", e.Archive, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ExtractError) Unwrap() error { return e.Err }

// IsArchive reports whether the filename looks like a submission archive.
func IsArchive(name string) bool {
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// DestDir derives the extraction directory for an archive.
// The directory sits next to the archive and is named after it with the
// archive suffix removed, so distinct archives always map to distinct
// directories and re-runs reuse the same ones.
func DestDir(archivePath string) string {
	base := filepath.Base(archivePath)
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(base, suffix) {
			base = strings.TrimSuffix(base, suffix)
			break
		}
	}
	return filepath.Join(filepath.Dir(archivePath), base)
}

// Find walks corpusDir recursively and returns the paths of all submission
// archives found, in walk order. A missing or unreadable corpus directory
// is the only fatal condition.
func Find(corpusDir string) ([]string, error) {
	var archives []string
	err := filepath.WalkDir(corpusDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsArchive(d.Name()) {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk corpus directory %q: %w", corpusDir, err)
	}
	return archives, nil
}

// Extract unpacks the archive into destDir, creating it if needed.
// A gzip-compressed read is attempted first; if the file has no gzip
// header the archive is reopened as a plain tar. If both reads fail the
// returned error is an *ExtractError wrapping the underlying cause.
//
// Extraction is idempotent: existing files in destDir are overwritten.
func Extract(archivePath, destDir string) error {
	gzErr := extractTar(archivePath, destDir, true)
	if gzErr == nil {
		return nil
	}

	if err := extractTar(archivePath, destDir, false); err != nil {
		return &ExtractError{
			Archive: archivePath,
			Err:     fmt.Errorf("unsupported format: not gzip (%v), not tar (%v)", gzErr, err),
		}
	}
	return nil
}

// extractTar performs a single extraction pass, optionally through gzip.
func extractTar(archivePath, destDir string, compressed bool) error {
	f, err := os.Open(archivePath) //nolint:gosec // Corpus paths are user-provided by design
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gz.Close()
		r = gz
	}

	tr := tar.NewReader(r)
	extracted := false
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A corrupt entry after valid ones still fails the archive:
			// a partial submission would skew pairwise scores.
			return err
		}

		target, err := entryPath(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0750); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
			extracted = true
		default:
			// Symlinks, devices, and other special entries are skipped.
			// Submissions are plain source trees; anything else is junk.
			continue
		}
	}

	if !extracted {
		return errors.New("archive contains no regular files")
	}
	return nil
}

// entryPath resolves an archive entry name under destDir, rejecting
// absolute names and names that escape the destination via "..".
func entryPath(destDir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || cleaned == ".." {
		return "", fmt.Errorf("unsafe entry path %q", name)
	}
	return filepath.Join(destDir, cleaned), nil
}

// writeEntry writes one regular file entry, creating parent directories.
func writeEntry(target string, r io.Reader, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm()) //nolint:gosec // Path sanitized by entryPath
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil { //nolint:gosec // Submission sizes are bounded by course policy
		_ = f.Close()
		return err
	}
	return f.Close()
}
