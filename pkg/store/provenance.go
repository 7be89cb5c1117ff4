package store

import (
	"fmt"

	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// provenanceRow is the flattened form of a Provenance. Unused columns hold
// "" rather than NULL so the UNIQUE constraint deduplicates them.
type provenanceRow struct {
	Kind       string
	Path       string
	RepoPath   string
	MemberPath string
	CommitHash string
}

func encodeProvenance(prov types.Provenance) (provenanceRow, error) {
	row := provenanceRow{Kind: prov.Kind()}

	switch p := prov.(type) {
	case types.FileProvenance:
		row.Path = p.FilePath
	case types.GitProvenance:
		row.RepoPath = p.RepoPath
		row.Path = p.BlobPath
		if p.Commit != nil {
			row.CommitHash = p.Commit.CommitID
		}
	case types.ArchiveProvenance:
		row.Path = p.ArchivePath
		row.MemberPath = p.MemberPath
	case types.NamedProvenance:
		row.Path = p.Name
	default:
		return provenanceRow{}, fmt.Errorf("unknown provenance type: %T", prov)
	}

	return row, nil
}

func decodeProvenance(row provenanceRow) (types.Provenance, error) {
	switch row.Kind {
	case "file":
		return types.FileProvenance{FilePath: row.Path}, nil
	case "git":
		p := types.GitProvenance{RepoPath: row.RepoPath, BlobPath: row.Path}
		if row.CommitHash != "" {
			p.Commit = &types.CommitMetadata{CommitID: row.CommitHash}
		}
		return p, nil
	case "archive":
		return types.ArchiveProvenance{ArchivePath: row.Path, MemberPath: row.MemberPath}, nil
	case "named":
		return types.NamedProvenance{Name: row.Path}, nil
	default:
		return nil, fmt.Errorf("unknown provenance kind: %q", row.Kind)
	}
}
