package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/leonardcser/overlay-art/internal/logger"
)

var (
	// ErrProducerFailed wraps any failure of the byte producer on a miss.
	ErrProducerFailed = errors.New("cache: producer failed")
	// ErrCacheIO wraps filesystem failures while creating an artifact.
	ErrCacheIO = errors.New("cache: io failure")
)

// Class is an artifact family sharing a file name prefix and a retention
// bound. MaxEntries <= 0 disables eviction for the class.
type Class struct {
	Name       string
	Ext        string
	MaxEntries int
}

func (c Class) prefix() string { return c.Name + "_" }

func (c Class) fileName(k Key) string { return c.prefix() + string(k) + c.Ext }

// Entry is a live artifact. Touched mirrors the file modification time.
type Entry struct {
	Key     Key
	Path    string
	Touched time.Time
}

// Producer returns the bytes of an artifact on a cache miss.
type Producer func() ([]byte, error)

type AssetOptions struct {
	// Now overrides the clock used for touch stamps. Defaults to time.Now.
	Now func() time.Time
}

// AssetStore is a content-addressed, bounded store of image artifacts in a
// single directory. Writes go to a temporary file that is renamed into
// place, so concurrent processes producing the same key converge on one
// complete file.
type AssetStore struct {
	dir    string
	now    func() time.Time
	remove func(string) error
	group  singleflight.Group

	mu        sync.Mutex
	lastStamp time.Time
}

// NewAssetStore returns a store rooted at dir. The directory is created on
// first write.
func NewAssetStore(dir string, opts AssetOptions) *AssetStore {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AssetStore{dir: dir, now: now, remove: os.Remove}
}

// Path returns where the artifact for k lives, whether or not it exists.
func (s *AssetStore) Path(c Class, k Key) string {
	return filepath.Join(s.dir, c.fileName(k))
}

// ResolveOrCreate returns the path of the artifact for k. On a hit the
// entry's touch time is refreshed and produce is not called. On a miss the
// produced bytes are persisted and the class is evicted down to its bound.
// Concurrent calls for the same key within the process share one producer
// call.
func (s *AssetStore) ResolveOrCreate(c Class, k Key, produce Producer) (string, error) {
	path := s.Path(c, k)
	v, err, _ := s.group.Do(path, func() (any, error) {
		return s.resolve(c, k, path, produce)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *AssetStore) resolve(c Class, k Key, path string, produce Producer) (string, error) {
	if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() && fi.Size() > 0 {
		if err := s.touch(path); err != nil {
			logger.Warnf("cache: touch %s: %v", path, err)
		}
		return path, nil
	}

	data, err := produce()
	if err != nil {
		return "", fmt.Errorf("%w: %s %s: %w", ErrProducerFailed, c.Name, k, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s %s: empty output", ErrProducerFailed, c.Name, k)
	}

	if err := ensureDir(s.dir); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCacheIO, err)
	}
	if err := s.writeAtomic(c, path, data); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCacheIO, err)
	}
	if err := s.touch(path); err != nil {
		logger.Warnf("cache: touch %s: %v", path, err)
	}
	if c.MaxEntries > 0 {
		if n := s.Evict(c, c.MaxEntries); n > 0 {
			logger.Debugf("cache: evicted %d %s entries", n, c.Name)
		}
	}
	return path, nil
}

func (s *AssetStore) writeAtomic(c Class, path string, data []byte) error {
	f, err := os.CreateTemp(s.dir, ".tmp-"+c.prefix()+"*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmp)
		return errors.Join(werr, cerr)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// touch stamps path with a time strictly later than any previous stamp
// issued by this store.
func (s *AssetStore) touch(path string) error {
	s.mu.Lock()
	t := s.now()
	if !t.After(s.lastStamp) {
		t = s.lastStamp.Add(time.Millisecond)
	}
	s.lastStamp = t
	s.mu.Unlock()
	return os.Chtimes(path, t, t)
}

// Entries lists the live entries of c, oldest first. A missing cache
// directory is an empty listing.
func (s *AssetStore) Entries(c Class) ([]Entry, error) {
	des, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	prefix := c.prefix()
	var out []Entry
	for _, de := range des {
		name := de.Name()
		if de.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, c.Ext) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Removed between listing and stat.
			continue
		}
		out = append(out, Entry{
			Key:     Key(strings.TrimSuffix(strings.TrimPrefix(name, prefix), c.Ext)),
			Path:    filepath.Join(s.dir, name),
			Touched: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Touched.Equal(out[j].Touched) {
			return out[i].Path < out[j].Path
		}
		return out[i].Touched.Before(out[j].Touched)
	})
	return out, nil
}

// Evict deletes the oldest entries of c until at most max remain and
// returns how many were removed. It is best effort: files that vanished
// count as evicted and other delete failures are logged and skipped.
func (s *AssetStore) Evict(c Class, max int) int {
	if max < 0 {
		max = 0
	}
	entries, err := s.Entries(c)
	if err != nil {
		logger.Warnf("cache: list %s: %v", s.dir, err)
		return 0
	}
	if len(entries) <= max {
		return 0
	}
	removed := 0
	for _, e := range entries[:len(entries)-max] {
		err := s.remove(e.Path)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			removed++
			continue
		}
		logger.Warnf("cache: evict %s: %v", e.Path, err)
	}
	return removed
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parentDir(path string) string { return filepath.Dir(path) }
