package portrait

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/cltl/micro-portraits/pkg/format"
	"github.com/cltl/micro-portraits/pkg/loader"
	ioloader "github.com/cltl/micro-portraits/pkg/loader/io"
)

const jsonDocument = `{
	"terms": [
		{"id": "t1", "lemma": "man", "pos": "noun", "offset": 0},
		{"id": "t2", "lemma": "slapen", "pos": "verb", "offset": 4}
	],
	"dependencies": [{"head": "t2", "dependent": "t1", "relation": "hd/su"}]
}`

func writeFiles(t *testing.T, names ...string) []loader.DocumentFile {
	t.Helper()
	dir := t.TempDir()
	l := ioloader.NewIODocumentLoader()

	var files []loader.DocumentFile
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(jsonDocument), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		files = append(files, loader.NewDocumentFile(loader.NewDocumentFileParams{
			FilePath: path,
			Loader:   l,
		}))
	}
	return files
}

func TestExtractFiles(t *testing.T) {
	files := writeFiles(t, "a.json", "b.json", "c.json")
	client, err := NewExtractorClient(NewExtractorClientParams{ParallelDocuments: 2})
	if err != nil {
		t.Fatalf("NewExtractorClient failed: %v", err)
	}

	ids := make([]string, len(files))
	err = client.ExtractFiles(context.Background(), files, func(i int, res *Result) error {
		ids[i] = res.DocumentID
		if len(res.Portraits) != 1 {
			t.Errorf("%s: expected one portrait, got %d", res.DocumentID, len(res.Portraits))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ExtractFiles failed: %v", err)
	}

	if !slices.Equal(ids, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected documents %v", ids)
	}
}

func TestExtractFiles_Errors(t *testing.T) {
	client, err := NewExtractorClient(NewExtractorClientParams{})
	if err != nil {
		t.Fatalf("NewExtractorClient failed: %v", err)
	}

	t.Run("unknown format", func(t *testing.T) {
		files := writeFiles(t, "a.txt")
		err := client.ExtractFiles(context.Background(), files, func(int, *Result) error { return nil })
		if !errors.Is(err, format.ErrUnknownFormat) {
			t.Fatalf("expected ErrUnknownFormat, got %v", err)
		}
	})

	t.Run("sink error", func(t *testing.T) {
		files := writeFiles(t, "a.json")
		sinkErr := errors.New("sink failed")
		err := client.ExtractFiles(context.Background(), files, func(int, *Result) error { return sinkErr })
		if !errors.Is(err, sinkErr) {
			t.Fatalf("expected sink error, got %v", err)
		}
	})
}

func TestExtractBytes(t *testing.T) {
	client, err := NewExtractorClient(NewExtractorClientParams{})
	if err != nil {
		t.Fatalf("NewExtractorClient failed: %v", err)
	}
	res, err := client.ExtractBytes([]byte(jsonDocument), format.JSON, "doc")
	if err != nil {
		t.Fatalf("ExtractBytes failed: %v", err)
	}
	p := mustPortrait(t, res, "t1")
	if p.Activities[0].Text() != "agent slapen" {
		t.Fatalf("unexpected activity %q", p.Activities[0].Text())
	}
	if res.DocumentID != "doc" {
		t.Fatalf("expected document id doc, got %q", res.DocumentID)
	}
}
