package uploads

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSecureFilename(t *testing.T) {
	cases := map[string]string{
		"metrics.csv":             "metrics.csv",
		"Q1 metrics.xlsx":         "Q1_metrics.xlsx",
		"../../etc/passwd":        "passwd",
		`C:\Users\me\growth.csv`:  "growth.csv",
		"..":                      "",
		"  .hidden.csv":           "hidden.csv",
		"réport (final).csv":      "rport_final.csv",
		"data/sub dir/m e t.xlsx": "m_e_t.xlsx",
	}
	for in, want := range cases {
		if got := SecureFilename(in); got != want {
			t.Errorf("SecureFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSaveWritesIntoDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s := New(dir)

	path, err := s.Save("../q1 data.csv", strings.NewReader("date,revenue\n"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != filepath.Join(dir, "q1_data.csv") {
		t.Fatalf("unexpected path %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "date,revenue\n" {
		t.Fatalf("unexpected content %q (%v)", b, err)
	}

	// same name replaces the earlier upload
	if _, err := s.Save("q1 data.csv", strings.NewReader("x")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	b, _ = os.ReadFile(path)
	if string(b) != "x" {
		t.Fatalf("expected overwrite, got %q", b)
	}
}

func TestSaveRejectsEmptyName(t *testing.T) {
	_, err := New(t.TempDir()).Save("///", strings.NewReader("x"))
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}
