package model

// Submission represents one extracted submission archive.
// The extracted directory is owned by the run: it is created during
// extraction and removed after the report has been written.
type Submission struct {
	// ArchivePath is the path to the original compressed archive.
	ArchivePath string `json:"archive_path"`

	// Dir is the directory the archive was extracted into.
	// It is derived deterministically from ArchivePath, so two runs over
	// the same corpus reuse (and overwrite) the same directories.
	Dir string `json:"dir"`

	// Err records why extraction failed, if it did. A failed submission
	// contributes no candidate files but does not abort the run.
	Err string `json:"error,omitempty"`
}

// Candidate is a discovered instance of the target filename inside an
// extracted submission. Candidates are immutable once discovered.
type Candidate struct {
	// Path is the absolute or corpus-relative path of the matched file.
	Path string `json:"path"`

	// Digest is the blake2b-256 digest of the file's canonical text,
	// in hex. Empty when canonicalization or parsing failed.
	Digest string `json:"digest,omitempty"`
}
