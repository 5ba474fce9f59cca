// Package registry enumerates the local Trailhead databases, validates
// names, and creates or deletes database files through the store manager.
//
// Data databases live in one directory as "trailhead_<name>.db". The prefix
// keeps discovery away from unrelated files, and the settings database has
// no prefix so it is never listed. Three names are reserved: the seeded
// default database, the read-only built-in demo dataset, and the volatile
// mode with no backing file at all.
package registry

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/trailhead-app/trailhead/internal/store"
)

// Reserved database names.
const (
	// DefaultName is the seeded default database.
	DefaultName = "default"
	// DemoName is the built-in demo dataset. It has no backing file;
	// loads always return a fresh copy of fixed content.
	DemoName = "demo"
	// VolatileName is non-persistent mode. Mutations live only in memory.
	VolatileName = "temporary"
)

// FilePrefix distinguishes Trailhead data databases from unrelated files.
const FilePrefix = "trailhead_"

var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,31}$`)

// ErrNameConflict is wrapped by Create when the name already denotes an
// existing or reserved database.
var ErrNameConflict = errors.New("name conflict")

// Registry lists, creates, and deletes named databases.
type Registry struct {
	manager *store.Manager
}

// New creates a registry over the given store manager.
func New(m *store.Manager) *Registry {
	return &Registry{manager: m}
}

// FileName maps a database name to its backing file name.
func FileName(name string) string {
	return FilePrefix + name + ".db"
}

// IsReserved reports whether name denotes the demo or volatile database,
// which can never be created or deleted by the user.
func IsReserved(name string) bool {
	return name == DemoName || name == VolatileName
}

// ValidateName checks the naming convention: lowercase letters, digits and
// dashes, up to 32 characters, not the settings file.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid database name %q: use lowercase letters, digits and dashes (max 32 chars)", name)
	}
	return nil
}

// Discover lists the names of all data databases on disk, sorted. The
// settings database and files without the prefix are excluded. A missing
// data directory reads as zero databases, not an error.
func (r *Registry) Discover() ([]string, error) {
	entries, err := os.ReadDir(r.manager.DataDir())
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		file := entry.Name()
		if !strings.HasPrefix(file, FilePrefix) || !strings.HasSuffix(file, ".db") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(file, FilePrefix), ".db")
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether a data database file for name is on disk.
func (r *Registry) Exists(name string) (bool, error) {
	names, err := r.Discover()
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// Create initializes a new empty database file. Fails when the name is
// reserved, malformed, or already present.
func (r *Registry) Create(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if IsReserved(name) {
		return fmt.Errorf("%w: database name %q is reserved", ErrNameConflict, name)
	}
	exists, err := r.Exists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: database %q already exists", ErrNameConflict, name)
	}

	s, err := r.manager.Open(FileName(name))
	if err != nil {
		return err
	}
	_ = s // file and schema now exist; handle stays cached
	return nil
}

// Delete closes any cached handle first so the file deletion cannot be
// blocked by our own connection, then removes the file and its sidecars.
func (r *Registry) Delete(name string) error {
	if IsReserved(name) {
		return fmt.Errorf("database name %q is reserved", name)
	}
	return r.manager.Remove(FileName(name))
}

// Resolve picks the database to activate at startup. Precedence: the
// persisted preference when it still exists, then the default database,
// then the first discovered name, then volatile mode when nothing exists.
func Resolve(preferred string, discovered []string) string {
	has := func(name string) bool {
		for _, n := range discovered {
			if n == name {
				return true
			}
		}
		return false
	}

	if preferred == DemoName {
		return DemoName
	}
	if preferred != "" && has(preferred) {
		return preferred
	}
	if has(DefaultName) {
		return DefaultName
	}
	if len(discovered) > 0 {
		return discovered[0]
	}
	return VolatileName
}
