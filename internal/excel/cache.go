package excel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ErrNotFound marks a missing file or sheet.
var ErrNotFound = errors.New("not found")

// ErrExists marks a file or sheet name collision.
var ErrExists = errors.New("already exists")

// Cache holds the open workbook handle for every path loaded during the
// server session. A path is read from disk at most once; later operations
// against the same path observe the in-memory mutations of earlier ones.
// The cache owns its handles for the life of the process unless a caller
// explicitly invalidates a path.
type Cache struct {
	mu      sync.Mutex
	baseDir string
	books   map[string]*Workbook
}

// NewCache creates a cache rooted at baseDir. Relative workbook paths
// are resolved under baseDir.
func NewCache(baseDir string) *Cache {
	return &Cache{
		baseDir: baseDir,
		books:   make(map[string]*Workbook),
	}
}

// Resolve canonicalizes a workbook path. Absolute paths pass through
// unchanged; relative paths are joined under the base directory.
func (c *Cache) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.baseDir, path)
}

// Load returns the cached handle for path, reading the file from disk on
// first access. The file on disk is never consulted again once a handle
// exists, even if it changed externally; use Invalidate to force a re-read.
func (c *Cache) Load(path string) (*Workbook, error) {
	full := c.Resolve(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if wb, ok := c.books[full]; ok {
		return wb, nil
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %s: %w", full, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", full, err)
	}
	file, err := excelize.OpenFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", full, err)
	}
	wb := &Workbook{file: file, path: full}
	c.books[full] = wb
	return wb, nil
}

// Create makes a new workbook at path with a single sheet, persists it,
// and caches the handle. It fails if a file already exists at the path.
func (c *Cache) Create(path string, sheetName string) (*Workbook, error) {
	full := c.Resolve(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.books[full]; ok {
		return nil, fmt.Errorf("file %s: %w", full, ErrExists)
	}
	if _, err := os.Stat(full); err == nil {
		return nil, fmt.Errorf("file %s: %w", full, ErrExists)
	}
	file := excelize.NewFile()
	file.Path = full
	if sheetName != "" && sheetName != "Sheet1" {
		if err := file.SetSheetName("Sheet1", sheetName); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to name initial sheet: %w", err)
		}
	}
	wb := &Workbook{file: file, path: full}
	if err := wb.Save(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to save new workbook: %w", err)
	}
	c.books[full] = wb
	return wb, nil
}

// Invalidate drops the cached handle for path, closing it. The next Load
// re-reads the file from disk. Returns true when a handle was present.
func (c *Cache) Invalidate(path string) bool {
	full := c.Resolve(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	wb, ok := c.books[full]
	if !ok {
		return false
	}
	wb.file.Close()
	delete(c.books, full)
	return true
}

// Evict closes and drops every cached handle.
func (c *Cache) Evict() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path, wb := range c.books {
		wb.file.Close()
		delete(c.books, path)
	}
}

// Len reports the number of cached handles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.books)
}
