package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestPIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "othello.pid")

	p, err := acquirePIDFile(path, true)
	if err != nil {
		t.Fatalf("acquirePIDFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read PID file: %v", err)
	}
	if got, _ := strconv.Atoi(strings.TrimSpace(string(data))); got != os.Getpid() {
		t.Errorf("PID file holds %q", data)
	}

	// Our own process is alive, so a second locked acquire is refused
	if _, err := acquirePIDFile(path, true); err == nil {
		t.Error("second locked acquire succeeded")
	}

	p.Release()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("PID file not removed: %v", err)
	}
}

func TestCorruptedPIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "othello.pid")
	if err := os.WriteFile(path, []byte("not-a-pid\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := acquirePIDFile(path, true); err == nil {
		t.Error("corrupted PID file accepted")
	}

	// Without locking the file is simply overwritten
	p, err := acquirePIDFile(path, false)
	if err != nil {
		t.Fatalf("unlocked acquire: %v", err)
	}
	p.Release()
}
