package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("TEXTCHECK_FOO", "")
	t.Setenv("TEXTCHECK_BAR", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "\n# sample dotenv file\nTEXTCHECK_FOO=alpha\nexport TEXTCHECK_BAR=\"beta gamma\"\nmalformed\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	if err := LoadEnvFiles(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("TEXTCHECK_FOO"); got != "alpha" {
		t.Fatalf("FOO=%q, want alpha", got)
	}
	if got := os.Getenv("TEXTCHECK_BAR"); got != "beta gamma" {
		t.Fatalf("BAR=%q, want beta gamma", got)
	}
}

func TestLoadEnvFiles_OrderAndRealEnv(t *testing.T) {
	t.Setenv("TEXTCHECK_K", "")
	t.Setenv("TEXTCHECK_REAL", "from-shell")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("TEXTCHECK_K=first\nTEXTCHECK_REAL=file\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("TEXTCHECK_K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}
	if err := LoadEnvFiles(a, b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("TEXTCHECK_K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
	if got := os.Getenv("TEXTCHECK_REAL"); got != "from-shell" {
		t.Fatalf("real env overwritten: %q", got)
	}
}
