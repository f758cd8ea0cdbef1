package validators

import (
	"fmt"
	"sync"
	"testing"
)

func TestCachePutGet(t *testing.T) {
	c := NewCache(16)

	if _, ok := c.Get(CategoryTaxID, "12.345.678-5"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	want := Result{Valid: true, Confidence: 0.9, Normalized: "12.345.678-5"}
	c.Put(CategoryTaxID, "12.345.678-5", want)

	got, ok := c.Get(CategoryTaxID, "12.345.678-5")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Confidence != want.Confidence || got.Normalized != want.Normalized {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	// Same raw under another category is a distinct key.
	if _, ok := c.Get(CategoryEmail, "12.345.678-5"); ok {
		t.Fatal("category must be part of the cache key")
	}
}

func TestCacheResetsWhenFull(t *testing.T) {
	c := NewCache(4)
	for i := 0; i < 5; i++ {
		c.Put(CategoryTaxID, fmt.Sprintf("value-%d", i), Result{Valid: true})
	}
	if c.Len() > 4 {
		t.Fatalf("cache grew past its bound: %d entries", c.Len())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache(1024)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("worker-%d-%d", g, i)
				c.Put(CategoryPhone, key, Result{Valid: true, Confidence: 0.5})
				if _, ok := c.Get(CategoryPhone, key); !ok {
					t.Errorf("lost entry %s", key)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestValidateMemoizesByRawText(t *testing.T) {
	set := NewSet(DefaultWeights(), nil)

	first := set.Validate(CategoryTaxID, "12.345.678-5", "El RUT del cliente es 12.345.678-5")
	// Different context, same raw: the memoized result is returned.
	second := set.Validate(CategoryTaxID, "12.345.678-5", "sin contexto")

	if first.Confidence != second.Confidence {
		t.Fatalf("memoized confidence changed: %v vs %v", first.Confidence, second.Confidence)
	}
}
