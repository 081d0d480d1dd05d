package ai

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func sliceRecv(parts []string, tail error) func() (string, error) {
	i := 0
	return func() (string, error) {
		if i < len(parts) {
			p := parts[i]
			i++
			return p, nil
		}
		return "", tail
	}
}

func drain(ch <-chan Fragment) (string, error) {
	var b strings.Builder
	for frag := range ch {
		if frag.Err != nil {
			return b.String(), frag.Err
		}
		b.WriteString(frag.Text)
	}
	return b.String(), nil
}

func TestPumpPreservesOrderAndReleases(t *testing.T) {
	var released atomic.Int32
	ch := pump(context.Background(), sliceRecv([]string{"Hel", "", "lo", " world"}, io.EOF), func() { released.Add(1) })

	text, err := drain(ch)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if text != "Hello world" {
		t.Fatalf("unexpected text %q", text)
	}
	if released.Load() != 1 {
		t.Fatalf("expected release once, got %d", released.Load())
	}
}

func TestPumpForwardsProviderError(t *testing.T) {
	boom := errors.New("upstream 502")
	ch := pump(context.Background(), sliceRecv([]string{"partial"}, boom), func() {})

	text, err := drain(ch)
	if !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if text != "partial" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestPumpCancellationReleasesBlockedStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unblock := make(chan struct{})
	var released atomic.Int32

	recv := func() (string, error) {
		<-unblock
		return "", errors.New("stream closed")
	}
	release := func() {
		released.Add(1)
		close(unblock)
	}

	ch := pump(ctx, recv, release)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected channel to close without fragments")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("pump did not stop after cancellation")
	}
	if released.Load() != 1 {
		t.Fatalf("expected release once, got %d", released.Load())
	}
}
