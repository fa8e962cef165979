package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingWriterRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "regionshot.log")
	w, err := Open(path, 10, 2)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer w.Close()

	for _, line := range []string{"aaaaaaaa\n", "bbbbbbbb\n", "cccccccc\n", "dddddddd\n"} {
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	read := func(p string) string {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		return string(data)
	}
	if got := read(path); got != "dddddddd\n" {
		t.Fatalf("current = %q", got)
	}
	if got := read(path + ".1"); got != "cccccccc\n" {
		t.Fatalf(".1 = %q", got)
	}
	if got := read(path + ".2"); got != "bbbbbbbb\n" {
		t.Fatalf(".2 = %q", got)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("only two archives should be kept, stat err = %v", err)
	}
}

func TestOpenRotatesOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 64)), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := Open(path, 32, 3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer w.Close()
	if st, err := os.Stat(path); err != nil || st.Size() != 0 {
		t.Fatalf("expected fresh log file, stat = %v, %v", st, err)
	}
	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected archive: %v", err)
	}
}

func TestWriteAfterClose(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "a.log"), 100, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("x")); err == nil {
		t.Fatal("expected error writing to a closed log")
	}
}
