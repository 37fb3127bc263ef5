package camera

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func frameDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range []string{"0001.jpg", "0002.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte(f), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDirSourceCycles(t *testing.T) {
	s, err := NewDirSource(frameDir(t))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"0001.jpg", "0002.jpg", "0001.jpg"}
	for i, w := range want {
		frame, err := s.Grab()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(frame, []byte(w)) {
			t.Errorf("Grab() #%d = %q; want %q", i, frame, w)
		}
	}
}

func TestDirSourceEmpty(t *testing.T) {
	if _, err := NewDirSource(t.TempDir()); err == nil {
		t.Error("NewDirSource(empty) succeeded; want error")
	}
}

func TestFeedPublishes(t *testing.T) {
	source, err := NewDirSource(frameDir(t))
	if err != nil {
		t.Fatal(err)
	}

	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	for hub.Subscribers() == 0 {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feed := &Feed{Source: source, Hub: hub, Rate: 100}
	go feed.Run(ctx)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if kind != websocket.BinaryMessage {
		t.Errorf("message type = %d; want binary", kind)
	}
	if !bytes.Equal(frame, []byte("0001.jpg")) {
		t.Errorf("frame = %q; want 0001.jpg", frame)
	}
}
