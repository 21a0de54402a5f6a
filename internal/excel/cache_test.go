package excel

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestCacheResolve(t *testing.T) {
	cache := NewCache("/base")

	if got := cache.Resolve("book.xlsx"); got != filepath.Join("/base", "book.xlsx") {
		t.Errorf("Resolve relative = %q", got)
	}
	abs := filepath.Join(t.TempDir(), "book.xlsx")
	if got := cache.Resolve(abs); got != abs {
		t.Errorf("Resolve absolute = %q, want %q", got, abs)
	}
}

func TestCacheLoadMissingFile(t *testing.T) {
	cache := NewCache(t.TempDir())

	_, err := cache.Load("missing.xlsx")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load of missing file: got %v, want ErrNotFound", err)
	}
}

func TestCacheCreateAndReload(t *testing.T) {
	cache := NewCache(t.TempDir())

	wb, err := cache.Create("book.xlsx", "Data")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := wb.SheetNames(); len(got) != 1 || got[0] != "Data" {
		t.Errorf("SheetNames after Create = %v, want [Data]", got)
	}

	// Same path must fail now that the file exists.
	if _, err := cache.Create("book.xlsx", ""); !errors.Is(err, ErrExists) {
		t.Errorf("second Create: got %v, want ErrExists", err)
	}

	// Load must return the identical cached handle.
	again, err := cache.Load("book.xlsx")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if again != wb {
		t.Error("Load returned a different handle than Create cached")
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

func TestCacheMutationVisibleAcrossLoads(t *testing.T) {
	cache := NewCache(t.TempDir())

	wb, err := cache.Create("book.xlsx", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	sheet, err := wb.Sheet("")
	if err != nil {
		t.Fatalf("Sheet: %v", err)
	}
	if err := sheet.SetValue(Address{Row: 1, Col: 1}, "hello"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	// A second load in the same session observes the in-memory mutation
	// without any save or disk re-read.
	wb2, err := cache.Load("book.xlsx")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sheet2, err := wb2.Sheet("")
	if err != nil {
		t.Fatalf("Sheet: %v", err)
	}
	value, err := sheet2.Value(Address{Row: 1, Col: 1})
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if value != "hello" {
		t.Errorf("Value = %q, want %q", value, "hello")
	}
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewCache(t.TempDir())

	wb, err := cache.Create("book.xlsx", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	sheet, _ := wb.Sheet("")
	if err := sheet.SetValue(Address{Row: 1, Col: 1}, "persisted"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := wb.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !cache.Invalidate("book.xlsx") {
		t.Fatal("Invalidate returned false for a cached path")
	}
	if cache.Invalidate("book.xlsx") {
		t.Error("Invalidate returned true for an evicted path")
	}

	// Reload reads the persisted file from disk.
	wb2, err := cache.Load("book.xlsx")
	if err != nil {
		t.Fatalf("Load after Invalidate: %v", err)
	}
	if wb2 == wb {
		t.Error("Load after Invalidate returned the evicted handle")
	}
	sheet2, _ := wb2.Sheet("")
	value, err := sheet2.Value(Address{Row: 1, Col: 1})
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if value != "persisted" {
		t.Errorf("Value = %q, want %q", value, "persisted")
	}
}

func TestCacheEvict(t *testing.T) {
	cache := NewCache(t.TempDir())

	if _, err := cache.Create("a.xlsx", ""); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if _, err := cache.Create("b.xlsx", ""); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	cache.Evict()
	if cache.Len() != 0 {
		t.Errorf("Len after Evict = %d, want 0", cache.Len())
	}
}
