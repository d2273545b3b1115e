package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/hbomb79/Reel/pkg/sync"
	"github.com/mitchellh/go-homedir"
)

var log = logger.Get("Store")

// ErrNotFound is returned when a name does not resolve to a ready
// file inside the store.
var ErrNotFound = errors.New("file not found")

type (
	// Config controls where transient files live and whether
	// abandoned files are garbage collected.
	Config struct {
		Path string `toml:"path" yaml:"path" env:"DOWNLOAD_DIR" env-default:"./downloads"`

		// Files older than this which have not been fetched are removed by the
		// sweeper. Zero disables the sweeper, leaving abandoned files in place.
		OrphanTTLSeconds int `toml:"orphan_ttl_seconds" yaml:"orphan_ttl_seconds" env:"STORE_ORPHAN_TTL_SECONDS" env-default:"0"`

		SweepIntervalSeconds int `toml:"sweep_interval_seconds" yaml:"sweep_interval_seconds" env:"STORE_SWEEP_INTERVAL_SECONDS" env-default:"60"`
	}

	// Ticket reserves a unique name prefix for a single download. Every file the
	// engine writes for the download starts with the ticket's token.
	Ticket struct {
		Token    string
		Template string
		IssuedAt time.Time
	}

	// Store is the transient file store: a single directory where downloaded
	// files wait between being written and being delivered exactly once.
	// Concurrent downloads write disjoint names so no lock is held across
	// the directory.
	Store struct {
		root   string
		config Config

		inflight sync.TypedSyncMap[string, time.Time]
		claims   sync.TypedSyncMap[string, time.Time]
	}
)

func (config *Config) OrphanTTL() time.Duration {
	return time.Duration(config.OrphanTTLSeconds) * time.Second
}

func (config *Config) SweepInterval() time.Duration {
	return time.Duration(config.SweepIntervalSeconds) * time.Second
}

// New initialises the store, creating the directory when it is missing. If the
// path provided points to an existing FILE, an error is returned.
func New(config Config) (*Store, error) {
	if config.Path == "" {
		return nil, errors.New("store path must not be empty")
	}

	expanded, err := homedir.Expand(config.Path)
	if err != nil {
		return nil, fmt.Errorf("store path '%s' could not be expanded: %w", config.Path, err)
	}

	root, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("store path '%s' could not be resolved: %w", config.Path, err)
	}

	if info, err := os.Stat(root); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("store path '%s' is not a directory", root)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("store path '%s' could not be created: %w", root, err)
		}
		log.Emit(logger.NEW, "Created download directory %s\n", root)
	} else {
		return nil, fmt.Errorf("store path '%s' could not be accessed: %w", root, err)
	}

	return &Store{root: root, config: config}, nil
}

// Path returns the absolute path of the store directory.
func (store *Store) Path() string { return store.root }

// Issue reserves a new ticket. The template expands the media title after the
// token so names remain recognisable, while the random token guarantees
// uniqueness between concurrent downloads, including of the same source.
func (store *Store) Issue() Ticket {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	ticket := Ticket{
		Token:    token,
		Template: filepath.Join(store.root, token+"_%(title)s.%(ext)s"),
		IssuedAt: time.Now(),
	}

	store.inflight.Store(token, ticket.IssuedAt)
	return ticket
}

// Release marks the ticket as no longer in flight. Files written under it
// become eligible for the sweeper.
func (store *Store) Release(ticket Ticket) {
	store.inflight.Delete(ticket.Token)
}

// Discard removes every file written under the ticket (partial downloads,
// unmerged streams, ...) and releases it.
func (store *Store) Discard(ticket Ticket) {
	defer store.Release(ticket)

	matches, err := filepath.Glob(filepath.Join(store.root, ticket.Token+"*"))
	if err != nil {
		log.Warnf("Failed to list files for ticket %s: %v\n", ticket.Token, err)
		return
	}

	for _, path := range matches {
		if err := removeIfExists(path); err != nil {
			log.Warnf("Failed to discard %s: %v\n", path, err)
			continue
		}
		log.Emit(logger.REMOVE, "Discarded %s\n", filepath.Base(path))
	}
}

// Adopt accepts a path reported by the engine and returns its base name,
// provided the path is a regular file directly inside the store.
func (store *Store) Adopt(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	if filepath.Dir(abs) != store.root {
		return "", fmt.Errorf("'%s' is outside of the download directory", path)
	}

	name := filepath.Base(abs)
	if _, err := store.Resolve(name); err != nil {
		return "", fmt.Errorf("'%s' does not exist: %w", path, err)
	}

	return name, nil
}

// Exists reports whether the path exists on disk. Used to probe for the
// renamed output of the engine's merge step.
func (store *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Resolve constrains the name to the store directory and returns the full path
// of the file. Names containing path separators, dot-segments, or which do
// not refer to an existing regular file yield ErrNotFound.
func (store *Store) Resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", ErrNotFound
	}

	path := filepath.Join(store.root, name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrNotFound
	}

	return path, nil
}

// Claim marks the name as being delivered. Only the first caller for a
// given name succeeds; the claim is held until the returned release
// function is called.
func (store *Store) Claim(name string) (func(), bool) {
	if _, loaded := store.claims.LoadOrStore(name, time.Now()); loaded {
		return nil, false
	}

	return func() { store.claims.Delete(name) }, true
}

// Remove deletes the named file from the store. Removing a file which is
// already gone is not an error.
func (store *Store) Remove(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return ErrNotFound
	}

	return removeIfExists(filepath.Join(store.root, name))
}

// Sweep removes files older than maxAge which are neither being delivered nor
// belong to a download still in flight. It returns the number of files removed.
func (store *Store) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(store.root)
	if err != nil {
		return 0, fmt.Errorf("list download directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		name := entry.Name()
		if store.claims.Has(name) || store.isInflight(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		if err := removeIfExists(filepath.Join(store.root, name)); err != nil {
			log.Warnf("Failed to sweep orphaned file %s: %v\n", name, err)
			continue
		}

		log.Emit(logger.REMOVE, "Swept orphaned file %s (age %s)\n", name, time.Since(info.ModTime()).Round(time.Second))
		removed++
	}

	return removed, nil
}

// Run drives the orphan sweeper until the context is cancelled. When the
// orphan TTL is not configured this returns immediately.
func (store *Store) Run(ctx context.Context) error {
	ttl := store.config.OrphanTTL()
	if ttl <= 0 {
		log.Emit(logger.DEBUG, "Orphan sweeper disabled\n")
		return nil
	}

	interval := store.config.SweepInterval()
	if interval <= 0 {
		interval = time.Minute
	}

	log.Emit(logger.NEW, "Orphan sweeper running every %s (ttl %s)\n", interval, ttl)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := store.Sweep(ttl); err != nil {
				log.Errorf("Orphan sweep failed: %v\n", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (store *Store) isInflight(name string) bool {
	token, _, ok := strings.Cut(name, "_")
	if !ok {
		token = strings.SplitN(name, ".", 2)[0]
	}

	return store.inflight.Has(token)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}
