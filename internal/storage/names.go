package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Characters no supported host filesystem accepts in a file name.
const invalidNameChars = `/\:*?"<>|`

// sanitizeName replaces filesystem-hostile characters with underscores.
// If nothing printable survives, fallback is substituted.
func sanitizeName(name, fallback string) string {
	sanitized := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(invalidNameChars, r) {
			return '_'
		}
		return r
	}, name)

	if strings.TrimSpace(sanitized) == "" {
		return fallback
	}
	return sanitized
}

// uniqueName probes dir for an unused sibling name: the desired name as-is
// when free, otherwise "stem (1)ext", "stem (2)ext", ... ascending. The
// probe is check-then-act; callers must hold the directory lock so two
// concurrent creations cannot both observe a name as free.
func uniqueName(dir, desired string) (string, error) {
	ext := filepath.Ext(desired)
	stem := strings.TrimSuffix(desired, ext)

	candidate := desired
	for counter := 1; ; counter++ {
		_, err := os.Lstat(filepath.Join(dir, candidate))
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to probe name %q: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s (%d)%s", stem, counter, ext)
	}
}

// dirLocks serializes probe-and-create sequences per absolute directory.
type dirLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDirLocks() *dirLocks {
	return &dirLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for dir, creating it on first use. Entries are
// never evicted; the map is bounded by the number of distinct directories
// written to during the process lifetime.
func (d *dirLocks) get(dir string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	lock, ok := d.locks[dir]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[dir] = lock
	}
	return lock
}
