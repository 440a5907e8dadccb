package directory_test

import (
	"fmt"
	"sync"
	"testing"

	"hermes/internal/directory"
)

func TestCacheReplaceIsNotAMerge(t *testing.T) {
	cache := directory.NewCache()
	if cache.Len() != 0 || !cache.ReplacedAt().IsZero() {
		t.Fatal("expected empty cache")
	}

	cache.Replace([]directory.Entry{{Code: "A", Name: " Ada "}, {Code: "B", Name: "Grace"}})
	before := cache.Snapshot()

	cache.Replace([]directory.Entry{{Code: "C", Name: "Linus"}})
	after := cache.Snapshot()

	if _, ok := after.Lookup("A"); ok {
		t.Fatal("expected old entries to be gone after replace")
	}
	if name, ok := before.Lookup("A"); !ok || name != "Ada" {
		t.Fatalf("expected earlier view to stay intact with trimmed name, got %q %v", name, ok)
	}
	if after.Len() != 1 || cache.Len() != 1 {
		t.Fatalf("unexpected sizes: view=%d cache=%d", after.Len(), cache.Len())
	}
	if cache.ReplacedAt().IsZero() {
		t.Fatal("expected replacement time")
	}
}

func TestCacheKeepsInsertionOrderAndFirstPosition(t *testing.T) {
	cache := directory.NewCache()
	cache.Replace([]directory.Entry{
		{Code: "b", Name: "first"},
		{Code: "a", Name: "x"},
		{Code: "b", Name: ""},
		{Code: "  ", Name: "blank"},
	})
	view := cache.Snapshot()
	keys := view.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("unexpected key order: %v", keys)
	}
	if name, _ := view.Lookup("b"); name != "first" {
		t.Fatalf("expected empty duplicate name to be ignored, got %q", name)
	}
	entries := view.Entries()
	if len(entries) != 2 || entries[0].Code != "b" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestCacheConcurrentReadersSeeCompleteSnapshots(t *testing.T) {
	cache := directory.NewCache()
	build := func(gen int) []directory.Entry {
		entries := make([]directory.Entry, 50)
		for i := range entries {
			entries[i] = directory.Entry{Code: fmt.Sprintf("%d-%d", gen, i), Name: "n"}
		}
		return entries
	}
	cache.Replace(build(0))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for gen := 1; gen <= 100; gen++ {
			cache.Replace(build(gen))
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				view := cache.Snapshot()
				if view.Len() != 50 {
					t.Errorf("partial snapshot with %d entries", view.Len())
					return
				}
			}
		}()
	}
	wg.Wait()
}
