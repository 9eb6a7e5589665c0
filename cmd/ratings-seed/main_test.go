package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rickgao/smartbet/internal/ratings"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")

	configPath := filepath.Join(dir, "smartbet.yaml")
	config := "storage:\n  driver: file\n  dir: " + dataDir + "\n"
	if err := os.WriteFile(configPath, []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	input := filepath.Join(dir, "seed.json")
	table := `{
		"Arsenal": {"rating": 1620, "form": [3, 3, 1, 0, 3, 3, 1]},
		"Promoted FC": {"form": [1]}
	}`
	if err := os.WriteFile(input, []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run(context.Background(), configPath, "soccer", input, nil); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	got, err := ratings.NewFile(dataDir).Load(context.Background(), "soccer")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(table) = %d, want 2", len(got))
	}
	if n := len(got["Arsenal"].Form); n != 5 {
		t.Errorf("Arsenal form length = %d, want 5", n)
	}
	if got["Promoted FC"].Rating != 1500 {
		t.Errorf("Promoted FC rating = %v, want default 1500", got["Promoted FC"].Rating)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "smartbet.yaml")
	if err := os.WriteFile(configPath, []byte("storage:\n  driver: memory\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		sport string
		input string
	}{
		{"missing flags", "", ""},
		{"unknown sport", "cricket", filepath.Join(dir, "seed.json")},
		{"missing input", "soccer", filepath.Join(dir, "missing.json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(context.Background(), configPath, tt.sport, tt.input, nil); err == nil {
				t.Error("run() error = nil, want error")
			}
		})
	}
}
