package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateRelPath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantError bool
	}{
		{name: "catalog prompt path", path: "prompts/review.prompt.md"},
		{name: "nested instruction", path: "instructions/lang/go.instructions.md"},
		{name: "dot directory", path: ".hidden/file.md"},
		{name: "empty", path: "", wantError: true},
		{name: "current directory", path: ".", wantError: true},
		{name: "absolute", path: "/etc/hosts", wantError: true},
		{name: "leading traversal", path: "../secrets", wantError: true},
		{name: "traversal in middle", path: "prompts/../../etc/hosts", wantError: true},
		{name: "backslash", path: `prompts\x.prompt.md`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelPath(tt.path)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateRelPath(%q) error = %v, wantError %v", tt.path, err, tt.wantError)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		wantError bool
	}{
		{name: "commit hash", id: "3f2a9c0d1e"},
		{name: "with dashes", id: "snapshot-1"},
		{name: "empty", id: "", wantError: true},
		{name: "dot", id: ".", wantError: true},
		{name: "dot dot", id: "..", wantError: true},
		{name: "slash", id: "a/b", wantError: true},
		{name: "backslash", id: `a\b`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantError %v", tt.id, err, tt.wantError)
			}
		})
	}
}

func TestRealFS_Exists(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	file := filepath.Join(dir, "exists.md")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	ok, err := fs.Exists(file)
	if err != nil || !ok {
		t.Errorf("Exists(%q) = %v, %v; want true, nil", file, ok, err)
	}

	ok, err = fs.Exists(filepath.Join(dir, "missing.md"))
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v; want false, nil", ok, err)
	}
}

func TestRealFS_CopyFile(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	src := filepath.Join(dir, "upstream", "prompts", "a.prompt.md")
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(src, []byte("# A\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Run("creates parents", func(t *testing.T) {
		dst := filepath.Join(dir, ".github", "prompts", "a.prompt.md")
		if err := fs.CopyFile(src, dst); err != nil {
			t.Fatalf("CopyFile failed: %v", err)
		}
		got, err := os.ReadFile(dst)
		if err != nil {
			t.Fatalf("read dst: %v", err)
		}
		if string(got) != "# A\n" {
			t.Errorf("content = %q, want %q", got, "# A\n")
		}
	})

	t.Run("overwrites existing", func(t *testing.T) {
		dst := filepath.Join(dir, "existing.md")
		if err := os.WriteFile(dst, []byte("local edits that are longer"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := fs.CopyFile(src, dst); err != nil {
			t.Fatalf("CopyFile failed: %v", err)
		}
		got, _ := os.ReadFile(dst)
		if string(got) != "# A\n" {
			t.Errorf("content = %q, want %q", got, "# A\n")
		}
	})

	t.Run("rejects directory", func(t *testing.T) {
		if err := fs.CopyFile(dir, filepath.Join(dir, "out")); err == nil {
			t.Error("expected error copying a directory")
		}
	})
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	target := filepath.Join(dir, ".assetgate", "enablement.json")

	if err := fs.AtomicWrite(target, []byte(`{"version":1}`), 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	if err := fs.AtomicWrite(target, []byte(`{"version":2}`), 0644); err != nil {
		t.Fatalf("AtomicWrite overwrite failed: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `{"version":2}` {
		t.Errorf("content = %q", got)
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}

func TestRemoveIfEmpty(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty")
	full := filepath.Join(dir, "full")
	if err := os.MkdirAll(empty, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(full, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(full, "keep.md"), nil, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	removed, err := RemoveIfEmpty(fs, empty)
	if err != nil || !removed {
		t.Errorf("RemoveIfEmpty(empty) = %v, %v; want true, nil", removed, err)
	}
	removed, err = RemoveIfEmpty(fs, full)
	if err != nil || removed {
		t.Errorf("RemoveIfEmpty(full) = %v, %v; want false, nil", removed, err)
	}
	removed, err = RemoveIfEmpty(fs, filepath.Join(dir, "missing"))
	if err != nil || removed {
		t.Errorf("RemoveIfEmpty(missing) = %v, %v; want false, nil", removed, err)
	}
}
