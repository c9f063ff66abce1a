// Package testutil provides shared test helpers for setting up gallery sites.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/shashin/internal/storage"
)

// ManifestPath is where TestSite writes the manifest.
const ManifestPath = "data/csv/information.csv"

// TestSite creates a temporary site root with a storage.FS. A non-nil
// manifest is written to ManifestPath.
func TestSite(t *testing.T, manifest []byte) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	if manifest != nil {
		WriteFile(t, dir, ManifestPath, manifest)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteFile writes data to the site-relative path rel, creating directories.
func WriteFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// SampleManifest is a small manifest with subjects joined by the default
// tag separator. It starts with a UTF-8 byte-order mark: without one the
// separator's bytes look like Shift_JIS lead bytes to the default policy.
const SampleManifest = "\ufeff" + `src,title,description,subject
beach.jpg,Beach,Evening at the shore,sea・sky
"mount,fuji.webp",Fuji,"The ""big"" mountain",mountain・sky
,Broken,no image,none
cat.png,Cat,Sleeping cat,animal
`
