package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	m "vfault.dev/pkg/vfault/internal/model"
)

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	ctx := context.Background()

	t.Run("non recursive skips nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "top.v"), "module top;\nendmodule\n")

		nestedDir := filepath.Join(root, "nested")
		mustMkdir(t, nestedDir)
		writeTestFile(t, filepath.Join(nestedDir, "child.v"), "module child;\nendmodule\n")

		var visited []string
		err := adapter.Walk(ctx, m.Path(root), false, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		for _, forbidden := range []string{nestedDir, filepath.Join(nestedDir, "child.v")} {
			if containsPath(visited, forbidden) {
				t.Fatalf("Walk() unexpectedly visited %s when recursive is false", forbidden)
			}
		}

		if !containsPath(visited, filepath.Join(root, "top.v")) {
			t.Fatalf("Walk() did not visit top-level file")
		}
	})

	t.Run("recursive visits nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		nestedDir := filepath.Join(root, "nested")
		mustMkdir(t, nestedDir)
		child := filepath.Join(nestedDir, "child.v")
		writeTestFile(t, child, "module child;\nendmodule\n")

		var visited []string
		err := adapter.Walk(ctx, m.Path(root), true, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		if !containsPath(visited, child) {
			t.Fatalf("Walk() did not visit nested file when recursive")
		}
	})

	t.Run("stops on canceled context", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		err := adapter.Walk(canceled, m.Path(t.TempDir()), true, func(string, os.FileInfo, error) error {
			t.Fatalf("callback must not run")
			return nil
		})
		if err == nil {
			t.Fatalf("Walk() expected context error")
		}
	})
}

func TestLocalSourceFSAdapter_ReadWriteFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "top.v")
	content := "module top;\nendmodule\n"

	if err := adapter.WriteFile(ctx, m.Path(path), []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := adapter.ReadFile(ctx, m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(got) != content {
		t.Fatalf("ReadFile() = %q, want %q", string(got), content)
	}
}

func TestLocalSourceFSAdapter_HashFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "top.v")
	content := []byte("module top;\nendmodule\n")
	writeTestBytes(t, path, content)

	expected := fmt.Sprintf("%x", sha256.Sum256(content))

	hash, err := adapter.HashFile(context.Background(), m.Path(path))
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}

	if hash != expected {
		t.Fatalf("HashFile() = %s, want %s", hash, expected)
	}
}

func TestLocalSourceFSAdapter_FileInfoAndMkdirAll(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	root := t.TempDir()
	dir := filepath.Join(root, "out", "mutants")

	if err := adapter.MkdirAll(ctx, m.Path(dir)); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	info, err := adapter.FileInfo(ctx, m.Path(dir))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if !info.IsDir() {
		t.Fatalf("FileInfo() reported directory as file")
	}

	if _, err := adapter.FileInfo(ctx, m.Path(filepath.Join(root, "missing.v"))); !os.IsNotExist(err) {
		t.Fatalf("FileInfo() error = %v, want not exist", err)
	}
}

func TestIsVerilogFile(t *testing.T) {
	for path, want := range map[string]bool{
		"top.v":        true,
		"rtl/alu.sv":   true,
		"defs.vh":      true,
		"TOP.V":        true,
		"notes.txt":    false,
		"Makefile":     false,
		"main.go":      false,
		"archive.v.gz": false,
	} {
		if got := IsVerilogFile(path); got != want {
			t.Errorf("IsVerilogFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	writeTestBytes(t, path, []byte(contents))
}

func writeTestBytes(t *testing.T, path string, contents []byte) {
	t.Helper()
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}

	return false
}
