package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/saffron-ledger/saffron/internal/model"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}
	return path
}

func TestLoadTable(t *testing.T) {
	path := writeRulesFile(t, `
Food:
  - include: [starbucks, chipotle]
    weight: 0.8
  - exclude: [apple store]
    weight: -0.6
Transportation:
  - include: [uber, lyft]
    weight: 0.7
`)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}

	if len(table) != 2 {
		t.Fatalf("loaded %d categories, want 2", len(table))
	}

	foodRules := table[model.CategoryFood]
	if len(foodRules) != 2 {
		t.Fatalf("Food has %d rules, want 2", len(foodRules))
	}
	if foodRules[0].Weight != 0.8 || len(foodRules[0].Include) != 2 {
		t.Errorf("unexpected first Food rule: %+v", foodRules[0])
	}
	if foodRules[1].Weight != -0.6 || len(foodRules[1].Exclude) != 1 {
		t.Errorf("unexpected second Food rule: %+v", foodRules[1])
	}
}

func TestLoadTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "invalid yaml",
			content: "Food:\n  - include: [unclosed",
		},
		{
			name:    "fails validation",
			content: "Food:\n  - include: [starbucks]\n    weight: 0\n",
		},
		{
			name:    "empty file",
			content: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRulesFile(t, tt.content)
			if _, err := LoadTable(path); err == nil {
				t.Error("LoadTable() expected error, got nil")
			}
		})
	}
}

func TestLoadTable_MissingFile(t *testing.T) {
	if _, err := LoadTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadTable() expected error for missing file, got nil")
	}
}
