package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPageMemo_SharesLoads(t *testing.T) {
	m, err := newPageMemo(8)
	if err != nil {
		t.Fatal(err)
	}
	var loads int32
	release := make(chan struct{})
	load := func(context.Context) (string, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return "page", nil
	}
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, err := m.get(context.Background(), "u", load); err != nil || got != "page" {
				t.Errorf("get = %q, %v", got, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	if _, err := m.get(context.Background(), "u", load); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&loads); n != 1 {
		t.Fatalf("loaded %d times, want 1", n)
	}
}

func TestPageMemo_ForgetsFailures(t *testing.T) {
	m, _ := newPageMemo(8)
	calls := 0
	fail := func(context.Context) (string, error) { calls++; return "", errors.New("boom") }
	for i := 0; i < 2; i++ {
		if _, err := m.get(context.Background(), "u", fail); err == nil {
			t.Fatal("expected error")
		}
	}
	if calls != 2 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestPageMemo_Disabled(t *testing.T) {
	m, err := newPageMemo(0)
	if err != nil || m != nil {
		t.Fatalf("want nil memo, got %v %v", m, err)
	}
	calls := 0
	for i := 0; i < 2; i++ {
		_, _ = m.get(context.Background(), "u", func(context.Context) (string, error) { calls++; return "x", nil })
	}
	if calls != 2 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestPacer_SpacesStarts(t *testing.T) {
	p := newPacer(30 * time.Millisecond)
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if el := time.Since(start); el < 55*time.Millisecond {
		t.Fatalf("three starts took %v", el)
	}
}

func TestPacer_Cancel(t *testing.T) {
	p := newPacer(time.Hour)
	_ = p.Wait(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := p.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline, got %v", err)
	}
}
