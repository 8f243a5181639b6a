// SPDX-License-Identifier: MIT

package fsutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestConfineRelPath(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		target  string
		wantErr bool
	}{
		{name: "simple file", target: "report.pdf", wantErr: false},
		{name: "nested file", target: "reports/report.pdf", wantErr: false},
		{name: "dot segments collapsing inside", target: "a/../report.pdf", wantErr: false},
		{name: "parent traversal", target: "../outside.pdf", wantErr: true},
		{name: "deep traversal", target: "../../etc/passwd", wantErr: true},
		{name: "absolute path", target: "/etc/passwd", wantErr: true},
		{name: "backslash", target: "reports\\report.pdf", wantErr: true},
		{name: "bare dot dot", target: "..", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConfineRelPath(root, tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ConfineRelPath(%q) error = %v, wantErr %v", tt.target, err, tt.wantErr)
			}
			if err == nil && !filepath.IsAbs(got) {
				t.Errorf("ConfineRelPath(%q) = %q, want absolute path", tt.target, got)
			}
		})
	}
}

func TestConfineRelPathSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	link := filepath.Join(root, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	if _, err := ConfineRelPath(root, "escape/file.pdf"); err == nil {
		t.Fatal("expected error for symlink escaping root, got nil")
	}
}

func TestIsRegularFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := IsRegularFile(file); err != nil {
		t.Errorf("IsRegularFile(file) = %v, want nil", err)
	}
	if err := IsRegularFile(dir); err == nil {
		t.Error("IsRegularFile(dir) = nil, want error")
	}
	if err := IsRegularFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("IsRegularFile(missing) = nil, want error")
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.pdf")

	if err := WriteAtomic(context.Background(), path, []byte("payload")); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q, want %q", data, "payload")
	}

	// Overwrite must replace, not append.
	if err := WriteAtomic(context.Background(), path, []byte("v2")); err != nil {
		t.Fatalf("WriteAtomic() overwrite error = %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "v2" {
		t.Errorf("content after overwrite = %q, want %q", data, "v2")
	}
}
