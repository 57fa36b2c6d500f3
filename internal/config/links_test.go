package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadStoreLinks(t *testing.T) {
	content := `
[oda]
https://oda.com/no/categories/20-egg/
https://oda.com/no/categories/21-melk/

[meny]
https://meny.no/varer/meieri-egg/egg
not-a-url
`
	path := filepath.Join(t.TempDir(), "online_store_links.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write links file: %v", err)
	}

	links, err := LoadStoreLinks(path)
	if err != nil {
		t.Fatalf("LoadStoreLinks failed: %v", err)
	}

	if got := len(links["oda"]); got != 2 {
		t.Errorf("len(links[oda]) = %d, want 2", got)
	}
	if got := len(links["meny"]); got != 1 {
		t.Errorf("len(links[meny]) = %d, want 1 (non-url line skipped)", got)
	}
	if links["meny"][0] != "https://meny.no/varer/meieri-egg/egg" {
		t.Errorf("links[meny][0] = %q", links["meny"][0])
	}
}

func TestLoadStoreLinksMissingFile(t *testing.T) {
	links, err := LoadStoreLinks(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("LoadStoreLinks on missing file = %v, want nil", err)
	}
	if len(links) != 0 {
		t.Errorf("len(links) = %d, want 0", len(links))
	}
}
