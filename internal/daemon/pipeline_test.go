//go:build linux

package daemon

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nodech/sway-matiane/internal/config"
	"github.com/nodech/sway-matiane/internal/sway"
)

func packet(t *testing.T, packetType uint32, payload []byte) []byte {
	t.Helper()
	out := append([]byte{}, sway.Magic[:]...)
	var field [4]byte
	binary.NativeEndian.PutUint32(field[:], uint32(len(payload)))
	out = append(out, field[:]...)
	binary.NativeEndian.PutUint32(field[:], packetType)
	out = append(out, field[:]...)
	return append(out, payload...)
}

// swayServer subscribes one client, emits a single window event and then
// holds the connection open until the client hangs up.
func swayServer(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sway.sock")
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		request := make([]byte, len(packet(t, 2, []byte(`["window"]`))))
		if _, err := io.ReadFull(conn, request); err != nil {
			return
		}

		conn.Write(packet(t, 2, []byte(`{"success":true}`)))
		conn.Write(packet(t, sway.EventFlag|uint32(sway.EventWindow), []byte(
			`{"change":"focus","container":{"id":1,"name":"term","app_id":"foot","pid":7}}`,
		)))

		// Hold the stream open until the daemon shuts down.
		io.Copy(io.Discard, conn)
	}()

	return path
}

func TestDaemonWritesFocusedEvent(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), "state")
	t.Setenv("SWAYSOCK", swayServer(t))

	trayOff := false
	cfg := &config.Config{
		StateDir:     stateDir,
		LiveInterval: 3600,
		IdleTimeout:  300,
		SwayidlePath: "true",
		Tray:         config.TrayConfig{Enabled: &trayOff},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, "") }()

	// Scan the whole directory rather than guessing the date: the
	// daemon stamps its own clock.
	readJournal := func() string {
		matches, _ := filepath.Glob(filepath.Join(stateDir, "*.log"))
		var all strings.Builder
		for _, m := range matches {
			contents, _ := os.ReadFile(m)
			all.Write(contents)
		}
		return all.String()
	}

	deadline := time.Now().Add(5 * time.Second)
	var line string
	for time.Now().Before(deadline) {
		line = readJournal()
		if strings.Contains(line, `"type":"focused"`) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.Contains(line, `"type":"focused"`) {
		t.Fatalf("journal has no focused record: %q", line)
	}
	if !strings.Contains(line, `"data":{"title":"term","id":"foot","pid":7}`) {
		t.Fatalf("unexpected focused record: %q", line)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("daemon returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not shut down")
	}

	// Shutdown unlocks the LOCK file but leaves it in place.
	if _, err := os.Stat(filepath.Join(stateDir, "LOCK")); err != nil {
		t.Fatalf("LOCK file missing: %v", err)
	}
}
