package explore

import (
	"path/filepath"
	"testing"

	"github.com/praetorian-inc/chunkpos/pkg/datastore"
	"github.com/praetorian-inc/chunkpos/pkg/indexer"
	"github.com/praetorian-inc/chunkpos/pkg/store"
	"github.com/praetorian-inc/chunkpos/pkg/types"
)

func TestBuildSourceRow(t *testing.T) {
	src := &store.Source{
		ID:   types.ComputeChunkID([]byte("content")),
		Size: 42,
		Provenance: []types.Provenance{
			types.FileProvenance{FilePath: "/repo/main.go"},
			types.GitProvenance{RepoPath: "/repo", BlobPath: "main.go"},
			types.FileProvenance{FilePath: "/copy/main.go"},
		},
	}
	chunks := []*types.ChunkRecord{
		{Index: 0, LineCount: 2, EndsWithNewline: true},
		{Index: 1, LineCount: 3, Forward: types.Span{End: types.Position{Row: 4, Column: 1}}},
	}

	row := buildSourceRow(src, chunks)

	if row.Path != "/repo/main.go" {
		t.Errorf("expected path '/repo/main.go', got '%s'", row.Path)
	}
	if len(row.Kinds) != 2 || row.Kinds[0] != "file" || row.Kinds[1] != "git" {
		t.Errorf("expected kinds [file git], got %v", row.Kinds)
	}
	if row.Lines != 5 {
		t.Errorf("expected 5 lines, got %d", row.Lines)
	}
	if row.End != (types.Position{Row: 4, Column: 1}) {
		t.Errorf("expected end 4:1, got %s", row.End)
	}
	if row.Extension != ".go" {
		t.Errorf("expected extension '.go', got '%s'", row.Extension)
	}
	if row.ending() != "no newline" {
		t.Errorf("expected ending 'no newline', got '%s'", row.ending())
	}
}

func TestBuildSourceRow_NoProvenance(t *testing.T) {
	src := &store.Source{ID: types.ComputeChunkID([]byte("x"))}

	row := buildSourceRow(src, nil)

	if row.Path != src.ID.Short() {
		t.Errorf("expected short ID path, got '%s'", row.Path)
	}
	if len(row.Kinds) != 1 || row.Kinds[0] != "-" {
		t.Errorf("expected kinds [-], got %v", row.Kinds)
	}
	if row.ending() != "empty" {
		t.Errorf("expected ending 'empty', got '%s'", row.ending())
	}
}

func TestExtensionOf(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"src/app.GO", ".go"},
		{"Makefile", "-"},
		{"docs/report.docx:word/document.xml", ".xml"},
		{"stdin", "-"},
	}

	for _, tt := range tests {
		if got := extensionOf(tt.path); got != tt.expected {
			t.Errorf("extensionOf(%q) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}

func TestLoadData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "chunkpos.ds")
	ds, err := datastore.Open(dir, datastore.Options{StoreSources: true})
	if err != nil {
		t.Fatalf("opening datastore: %v", err)
	}

	core, err := indexer.NewCore(indexer.DefaultConfig(), ds.Store, nil)
	if err != nil {
		t.Fatalf("creating indexer: %v", err)
	}
	content := []byte("line one\nline two\n")
	if _, err := core.IndexSource(content, types.FileProvenance{FilePath: "/src/notes.txt"}); err != nil {
		t.Fatalf("indexing: %v", err)
	}
	if _, err := ds.Sources.Put(content); err != nil {
		t.Fatalf("storing source: %v", err)
	}
	if _, err := core.IndexSource([]byte("other"), types.NamedProvenance{Name: "stdin"}); err != nil {
		t.Fatalf("indexing: %v", err)
	}
	if err := ds.Close(); err != nil {
		t.Fatalf("closing datastore: %v", err)
	}

	data, err := loadData(dir)
	if err != nil {
		t.Fatalf("loadData: %v", err)
	}
	defer data.close()

	if len(data.sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(data.sources))
	}
	if data.content == nil {
		t.Fatal("expected source content store")
	}

	for _, s := range data.sources {
		if len(s.Chunks) == 0 {
			t.Errorf("expected chunks for %s", s.Path)
		}
		got, ok := data.sourceBytes(s.ID)
		switch s.Path {
		case "/src/notes.txt":
			if !ok || string(got) != string(content) {
				t.Errorf("expected stored content for %s", s.Path)
			}
		case "stdin":
			if ok {
				t.Errorf("expected no stored content for %s", s.Path)
			}
		default:
			t.Errorf("unexpected source %s", s.Path)
		}
	}
}

func TestLoadData_Missing(t *testing.T) {
	if _, err := loadData(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing datastore")
	}
}
