package types

import (
	"fmt"
	"time"
)

// Provenance tracks where an indexed source came from.
type Provenance interface {
	Kind() string
	// Path returns displayable path (if applicable)
	Path() string
}

// FileProvenance for filesystem files.
type FileProvenance struct {
	FilePath string
}

// Kind returns "file".
func (f FileProvenance) Kind() string {
	return "file"
}

// Path returns the file path.
func (f FileProvenance) Path() string {
	return f.FilePath
}

// GitProvenance for git repository blobs.
type GitProvenance struct {
	RepoPath string
	Commit   *CommitMetadata // nil if not tracking commit info
	BlobPath string          // path within repo at commit
}

// Kind returns "git".
func (g GitProvenance) Kind() string {
	return "git"
}

// Path returns the blob path within the repository.
func (g GitProvenance) Path() string {
	return g.BlobPath
}

// CommitMetadata holds the commit a git blob was read from.
type CommitMetadata struct {
	CommitID   string
	AuthorName string
	Timestamp  time.Time
	Message    string
}

// ArchiveProvenance tracks text extracted from documents and archives.
type ArchiveProvenance struct {
	ArchivePath string // path to the archive/binary file
	MemberPath  string // path within the archive (e.g., "word/document.xml")
}

// Kind returns "archive".
func (a ArchiveProvenance) Kind() string {
	return "archive"
}

// Path returns the archive path with member path.
func (a ArchiveProvenance) Path() string {
	return fmt.Sprintf("%s:%s", a.ArchivePath, a.MemberPath)
}

// NamedProvenance labels in-memory content handed to the library or the
// streaming server.
type NamedProvenance struct {
	Name string
}

// Kind returns "named".
func (n NamedProvenance) Kind() string {
	return "named"
}

// Path returns the caller supplied name.
func (n NamedProvenance) Path() string {
	return n.Name
}
