package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvReadsDotenvFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DEBUG=true\n"), 0o644); err != nil {
		t.Fatalf("writing .env: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv("DEBUG")
	})

	os.Unsetenv("DEBUG")
	LoadEnv()

	if !GetEnvBool("DEBUG", false) {
		t.Fatal("expected DEBUG from .env to be visible after LoadEnv")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		set          bool
		defaultValue bool
		want         bool
	}{
		{name: "true", value: "true", set: true, want: true},
		{name: "false", value: "false", set: true, defaultValue: true, want: false},
		{name: "garbage falls back", value: "yes", set: true, defaultValue: false, want: false},
		{name: "unset falls back", defaultValue: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("KGQA_TEST_BOOL")
			if tt.set {
				t.Setenv("KGQA_TEST_BOOL", tt.value)
			}
			if got := GetEnvBool("KGQA_TEST_BOOL", tt.defaultValue); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
