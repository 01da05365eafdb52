package cache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leonardcser/overlay-art/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// stepClock advances one second per call so touch order is explicit.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func bytesOf(s string) Producer {
	return func() ([]byte, error) { return []byte(s), nil }
}

func TestResolveOrCreateHitSkipsProducer(t *testing.T) {
	s := NewAssetStore(filepath.Join(t.TempDir(), "covers"), AssetOptions{Now: stepClock()})
	class := Class{Name: "comp", Ext: ".png", MaxEntries: 6}
	key := DeriveKey("title", "artist", "/tmp/raw.png")

	var calls int
	produce := func() ([]byte, error) {
		calls++
		return []byte("png"), nil
	}

	p1, err := s.ResolveOrCreate(class, key, produce)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := s.ResolveOrCreate(class, key, produce)
	if err != nil {
		t.Fatal(err)
	}
	if p1 != p2 {
		t.Errorf("paths differ: %q vs %q", p1, p2)
	}
	if calls != 1 {
		t.Errorf("producer called %d times, want 1", calls)
	}
	if filepath.Base(p1) != "comp_"+string(key)+".png" {
		t.Errorf("unexpected file name %q", filepath.Base(p1))
	}
}

func TestResolveOrCreateRefreshesTouch(t *testing.T) {
	s := NewAssetStore(t.TempDir(), AssetOptions{Now: stepClock()})
	class := Class{Name: "comp", Ext: ".png"}
	key := DeriveKey("a")

	path, err := s.ResolveOrCreate(class, key, bytesOf("x"))
	if err != nil {
		t.Fatal(err)
	}
	before, _ := os.Stat(path)
	if _, err := s.ResolveOrCreate(class, key, bytesOf("x")); err != nil {
		t.Fatal(err)
	}
	after, _ := os.Stat(path)
	if !after.ModTime().After(before.ModTime()) {
		t.Errorf("touch not refreshed: %v -> %v", before.ModTime(), after.ModTime())
	}
}

func TestEvictKeepsMostRecent(t *testing.T) {
	const max = 6
	s := NewAssetStore(t.TempDir(), AssetOptions{Now: stepClock()})
	class := Class{Name: "comp", Ext: ".png", MaxEntries: max}

	var keys []Key
	for i := 0; i < max+4; i++ {
		k := DeriveKey(fmt.Sprintf("request-%d", i))
		keys = append(keys, k)
		if _, err := s.ResolveOrCreate(class, k, bytesOf("img")); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.Entries(class)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != max {
		t.Fatalf("got %d entries, want %d", len(entries), max)
	}
	for i, e := range entries {
		if want := keys[len(keys)-max+i]; e.Key != want {
			t.Errorf("entry %d = %s, want %s", i, e.Key, want)
		}
	}
}

func TestEvictHonorsRecentHits(t *testing.T) {
	s := NewAssetStore(t.TempDir(), AssetOptions{Now: stepClock()})
	class := Class{Name: "raw", Ext: ".png", MaxEntries: 3}
	a, b, c, d := DeriveKey("a"), DeriveKey("b"), DeriveKey("c"), DeriveKey("d")

	for _, k := range []Key{a, b, c} {
		if _, err := s.ResolveOrCreate(class, k, bytesOf("x")); err != nil {
			t.Fatal(err)
		}
	}
	// Hit a so b becomes the oldest.
	if _, err := s.ResolveOrCreate(class, a, bytesOf("x")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ResolveOrCreate(class, d, bytesOf("x")); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(s.Path(class, b)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("b should have been evicted, stat err = %v", err)
	}
	for _, k := range []Key{a, c, d} {
		if _, err := os.Stat(s.Path(class, k)); err != nil {
			t.Errorf("%s missing: %v", k, err)
		}
	}
}

func TestClassesEvictIndependently(t *testing.T) {
	s := NewAssetStore(t.TempDir(), AssetOptions{Now: stepClock()})
	raw := Class{Name: "raw", Ext: ".png", MaxEntries: 1}
	comp := Class{Name: "comp", Ext: ".png", MaxEntries: 5}

	for i := 0; i < 3; i++ {
		if _, err := s.ResolveOrCreate(comp, DeriveKey("c", fmt.Sprint(i)), bytesOf("x")); err != nil {
			t.Fatal(err)
		}
		if _, err := s.ResolveOrCreate(raw, DeriveKey("r", fmt.Sprint(i)), bytesOf("x")); err != nil {
			t.Fatal(err)
		}
	}
	rawEntries, _ := s.Entries(raw)
	compEntries, _ := s.Entries(comp)
	if len(rawEntries) != 1 || len(compEntries) != 3 {
		t.Errorf("raw=%d comp=%d, want 1 and 3", len(rawEntries), len(compEntries))
	}
}

func TestProducerFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	s := NewAssetStore(dir, AssetOptions{})
	class := Class{Name: "raw", Ext: ".png"}
	boom := errors.New("download failed")

	_, err := s.ResolveOrCreate(class, DeriveKey("url"), func() ([]byte, error) { return nil, boom })
	if !errors.Is(err, ErrProducerFailed) {
		t.Fatalf("err = %v, want ErrProducerFailed", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped cause", err)
	}

	_, err = s.ResolveOrCreate(class, DeriveKey("empty"), bytesOf(""))
	if !errors.Is(err, ErrProducerFailed) {
		t.Fatalf("empty output err = %v, want ErrProducerFailed", err)
	}

	des, _ := os.ReadDir(dir)
	if len(des) != 0 {
		t.Errorf("expected empty dir, found %d files", len(des))
	}
}

func TestResolveOrCreateRecreatesDeletedFile(t *testing.T) {
	s := NewAssetStore(t.TempDir(), AssetOptions{})
	class := Class{Name: "comp", Ext: ".png"}
	key := DeriveKey("k")

	path, err := s.ResolveOrCreate(class, key, bytesOf("one"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ResolveOrCreate(class, key, bytesOf("two")); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "two" {
		t.Errorf("content = %q, want two", b)
	}
}

func TestConcurrentSameKeyProducesOnce(t *testing.T) {
	s := NewAssetStore(t.TempDir(), AssetOptions{})
	class := Class{Name: "comp", Ext: ".png"}
	key := DeriveKey("shared")

	var calls atomic.Int32
	produce := func() ([]byte, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []byte("same"), nil
	}

	var wg sync.WaitGroup
	paths := make([]string, 8)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := s.ResolveOrCreate(class, key, produce)
			if err != nil {
				t.Error(err)
			}
			paths[i] = p
		}(i)
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("producer called %d times, want 1", n)
	}
	for _, p := range paths {
		if p != paths[0] {
			t.Errorf("paths differ: %q vs %q", p, paths[0])
		}
	}
}

func TestEvictToleratesMissingDir(t *testing.T) {
	s := NewAssetStore(filepath.Join(t.TempDir(), "absent"), AssetOptions{})
	if n := s.Evict(Class{Name: "comp", Ext: ".png"}, 1); n != 0 {
		t.Errorf("evicted %d from missing dir", n)
	}
}

func TestEntriesIgnoresTempAndOtherClasses(t *testing.T) {
	dir := t.TempDir()
	s := NewAssetStore(dir, AssetOptions{})
	class := Class{Name: "comp", Ext: ".png"}
	for _, name := range []string{".tmp-comp_123", "raw_abc.png", "comp_abc.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := s.Entries(class)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestResolveOrCreateReportsCacheIO(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "covers")
	if err := os.WriteFile(dir, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewAssetStore(dir, AssetOptions{})
	_, err := s.ResolveOrCreate(Class{Name: "comp", Ext: ".png"}, DeriveKey("a"), bytesOf("png"))
	if !errors.Is(err, ErrCacheIO) {
		t.Errorf("err = %v, want ErrCacheIO", err)
	}
	if errors.Is(err, ErrProducerFailed) {
		t.Errorf("io failure reported as producer failure: %v", err)
	}
}

func TestSeparateStoresConvergeOnOneFile(t *testing.T) {
	dir := t.TempDir()
	class := Class{Name: "comp", Ext: ".png"}
	key := DeriveKey("shared")
	want := make([]byte, 1<<16)
	for i := range want {
		want[i] = byte(i)
	}

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := NewAssetStore(dir, AssetOptions{})
			_, errs[i] = s.ResolveOrCreate(class, key, func() ([]byte, error) {
				return append([]byte(nil), want...), nil
			})
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("store %d: %v", i, err)
		}
	}

	entries, err := NewAssetStore(dir, AssetOptions{}).Entries(class)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("%d entries, want 1", len(entries))
	}
	got, err := os.ReadFile(entries[0].Path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) || string(got) != string(want) {
		t.Errorf("file holds %d bytes, want %d complete bytes", len(got), len(want))
	}
	des, _ := os.ReadDir(dir)
	if len(des) != 1 {
		t.Errorf("%d files in cache dir, temp files left behind", len(des))
	}
}

func TestEvictCountsVanishedFiles(t *testing.T) {
	s := NewAssetStore(t.TempDir(), AssetOptions{Now: stepClock()})
	class := Class{Name: "raw", Ext: ".png"}
	for _, name := range []string{"a", "b", "c"} {
		if _, err := s.ResolveOrCreate(class, DeriveKey(name), bytesOf(name)); err != nil {
			t.Fatal(err)
		}
	}
	// Another process deletes each file right before this store does.
	s.remove = func(path string) error {
		if err := os.Remove(path); err != nil {
			return err
		}
		return os.Remove(path)
	}
	if n := s.Evict(class, 1); n != 2 {
		t.Errorf("evicted %d, want 2", n)
	}
	entries, _ := s.Entries(class)
	if len(entries) != 1 {
		t.Errorf("%d entries left, want 1", len(entries))
	}
}
