package arena

import (
	"sync"
	"testing"
)

// =============================================================================
// Arena Tests
// =============================================================================

func TestArena_AddGet(t *testing.T) {
	a := New[string]()
	h1 := a.Add("one")
	h2 := a.Add("two")

	if h1 == h2 {
		t.Fatal("Add returned duplicate handles")
	}
	tests := []struct {
		h    Handle
		want string
	}{
		{h1, "one"},
		{h2, "two"},
	}
	for _, tt := range tests {
		got, ok := a.Get(tt.h)
		if !ok || got != tt.want {
			t.Errorf("Get(%v) = %q,%v, want %q,true", tt.h, got, ok, tt.want)
		}
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
}

func TestArena_NilHandle(t *testing.T) {
	a := New[int]()
	a.Add(1)

	if !Nil.IsNil() {
		t.Error("Nil.IsNil() = false")
	}
	if v, ok := a.Get(Nil); ok || v != 0 {
		t.Errorf("Get(Nil) = %d,%v, want 0,false", v, ok)
	}
	if a.Remove(Nil) || a.Set(Nil, 3) || a.Contains(Nil) {
		t.Error("Nil handle accepted")
	}
	if Nil.String() != "nil" {
		t.Errorf("Nil.String() = %q", Nil.String())
	}
}

func TestArena_StaleAfterRemove(t *testing.T) {
	a := New[string]()
	old := a.Add("texture")

	if !a.Remove(old) {
		t.Fatal("Remove of live handle = false")
	}
	if a.Remove(old) {
		t.Error("second Remove = true")
	}

	// The slot is reused but the old handle stays dead.
	fresh := a.Add("other")
	if fresh.index != old.index {
		t.Fatalf("slot not reused: %v vs %v", fresh, old)
	}
	if _, ok := a.Get(old); ok {
		t.Error("stale handle resolved after slot reuse")
	}
	if a.Set(old, "x") {
		t.Error("Set with stale handle = true")
	}
	if got, _ := a.Get(fresh); got != "other" {
		t.Errorf("Get(fresh) = %q, want other", got)
	}
}

func TestArena_Clear(t *testing.T) {
	a := New[int]()
	hs := []Handle{a.Add(1), a.Add(2), a.Add(3)}
	a.Remove(hs[1])
	a.Clear()

	for _, h := range hs {
		if a.Contains(h) {
			t.Errorf("Contains(%v) after Clear = true", h)
		}
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %d, want 0", a.Len())
	}
	h := a.Add(9)
	if v, ok := a.Get(h); !ok || v != 9 {
		t.Errorf("Get after Clear+Add = %d,%v", v, ok)
	}
}

func TestArena_ForEach(t *testing.T) {
	a := New[int]()
	a.Add(10)
	h := a.Add(20)
	a.Add(30)
	a.Remove(h)

	sum := 0
	a.ForEach(func(_ Handle, v int) { sum += v })
	if sum != 40 {
		t.Errorf("ForEach sum = %d, want 40", sum)
	}
}

func TestArena_ConcurrentReaders(t *testing.T) {
	a := New[int]()
	handles := make([]Handle, 64)
	for i := range handles {
		handles[i] = a.Add(i)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, h := range handles {
				if v, ok := a.Get(h); !ok || v != i {
					t.Errorf("Get(%v) = %d,%v", h, v, ok)
				}
			}
		}()
	}
	wg.Wait()
}
