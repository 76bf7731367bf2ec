package driver

import (
	"context"
	"testing"

	"afflint/internal/diag"
	"afflint/internal/project"
	"afflint/internal/source"
)

func openCache(t *testing.T) *DiskCache {
	t.Helper()
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return cache
}

func TestDiskCacheRoundtrip(t *testing.T) {
	cache := openCache(t)

	fs := source.NewFileSet()
	id := fs.AddVirtual("chart.aff", []byte(brokenChart))
	cfg := project.Default()
	key := cacheKey(fs.Get(id), cfg)

	if _, ok, err := cache.Get(key, id, cfg.MaxDiagnostics); err != nil || ok {
		t.Fatalf("Get before Put = ok=%v err=%v, want miss", ok, err)
	}

	res := CheckFile(fs, id, cfg)
	if err := cache.Put(key, res.Bag); err != nil {
		t.Fatal(err)
	}

	bag, ok, err := cache.Get(key, id, cfg.MaxDiagnostics)
	if err != nil || !ok {
		t.Fatalf("Get after Put = ok=%v err=%v, want hit", ok, err)
	}
	got := diag.FormatGoldenDiagnostics(bag.Items(), fs, true)
	want := diag.FormatGoldenDiagnostics(res.Bag.Items(), fs, true)
	if got != want {
		t.Errorf("cached diagnostics differ:\n%s\nwant:\n%s", got, want)
	}
}

func TestDiskCacheKeyChangesWithContentAndPolicy(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("a.aff", []byte(cleanChart))
	b := fs.AddVirtual("b.aff", []byte(brokenChart))
	cfg := project.Default()

	if cacheKey(fs.Get(a), cfg) == cacheKey(fs.Get(b), cfg) {
		t.Errorf("different content produced the same key")
	}

	other := project.Default()
	other.Format.FloatDigits = 3
	if cacheKey(fs.Get(a), cfg) == cacheKey(fs.Get(a), other) {
		t.Errorf("different policy produced the same key")
	}
}

func TestCheckPathsWithCache(t *testing.T) {
	cache := openCache(t)
	path := writeChart(t, "chart.aff", brokenChart)

	run := func() Result {
		fs := source.NewFileSet()
		results, err := CheckPaths(context.Background(), fs, []string{path}, Options{Cache: cache})
		if err != nil {
			t.Fatal(err)
		}
		return results[0]
	}

	cold := run()
	if cold.File == nil {
		t.Fatalf("cold run has no AST")
	}

	warm := run()
	if warm.File != nil {
		t.Fatalf("warm run re-analyzed the file")
	}
	if warm.Bag.Len() != cold.Bag.Len() {
		t.Errorf("warm diagnostics = %d, want %d", warm.Bag.Len(), cold.Bag.Len())
	}
}
