package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := r.ReadString('\n')
		ch <- result{line, err}
	}()
	select {
	case res := <-ch:
		if res.err != nil {
			t.Fatalf("read failed: %v", res.err)
		}
		return strings.TrimRight(res.line, "\n")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out reading from stream")
	}
	return ""
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, h.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	h := New()
	go h.Run(ctx)

	srv := httptest.NewServer(h)

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %s", ct)
	}

	reader := bufio.NewReader(resp.Body)
	if line := readLine(t, reader); line != ": connected" {
		t.Errorf("expected connected comment, got %q", line)
	}
	readLine(t, reader)
	waitForClients(t, h, 1)

	h.Broadcast(map[string]string{"type": "shape-created"})
	if line := readLine(t, reader); line != `data: {"type":"shape-created"}` {
		t.Errorf("unexpected event line %q", line)
	}

	resp.Body.Close()
	waitForClients(t, h, 0)

	srv.Close()
	cancel()
	<-h.done
}

func TestHubKeepAlive(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	h := New().WithKeepAlive(20 * time.Millisecond)
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	reader := bufio.NewReader(resp.Body)
	readLine(t, reader) // connected
	readLine(t, reader)
	if line := readLine(t, reader); line != ": keepalive" {
		t.Errorf("expected keepalive comment, got %q", line)
	}

	// Shutting the hub down closes open streams
	cancel()
	<-h.done
	resp.Body.Close()
	srv.Close()
}

func TestBroadcastWithoutClients(t *testing.T) {
	h := New()
	for i := 0; i < 300; i++ {
		h.Broadcast(i) // never blocks, even when the buffer is full
	}
	if h.ClientCount() != 0 {
		t.Errorf("expected no clients, got %d", h.ClientCount())
	}
}
