package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
spreadsheet_id: "1aGXDjQNcQhwasma-SKBb2ih8GDjpDutdV1k1ZvGKC88"
business:
  name: "Skyline Global (Pvt) Ltd."
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SheetTab != "Sheet1" {
		t.Errorf("SheetTab = %q, want Sheet1", cfg.SheetTab)
	}
	if cfg.DataRange != "A2:J" {
		t.Errorf("DataRange = %q, want A2:J", cfg.DataRange)
	}
	if cfg.Currency != "LKR" {
		t.Errorf("Currency = %q, want LKR", cfg.Currency)
	}
	if cfg.Columns.Status != 9 {
		t.Errorf("Columns.Status = %d, want 9", cfg.Columns.Status)
	}
	if len(cfg.Scopes) != 2 {
		t.Errorf("Scopes = %v, want gmail.send + spreadsheets", cfg.Scopes)
	}
	if !strings.Contains(cfg.Email.SubjectTemplate, "{invoice_no}") {
		t.Errorf("SubjectTemplate = %q, want invoice_no placeholder", cfg.Email.SubjectTemplate)
	}
	if cfg.TokenFile != "token.json" {
		t.Errorf("TokenFile = %q, want token.json", cfg.TokenFile)
	}
}

func TestLoad_PlaceholderRejected(t *testing.T) {
	path := writeConfig(t, `
spreadsheet_id: "YOUR_SHEET_ID_HERE"
business:
  name: "Skyline Global (Pvt) Ltd."
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for placeholder spreadsheet_id, got nil")
	}
}

func TestLoad_MissingBusinessName(t *testing.T) {
	path := writeConfig(t, `
spreadsheet_id: "real-id"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing business.name, got nil")
	}
}

func TestLoad_ExplicitValuesKept(t *testing.T) {
	path := writeConfig(t, `
spreadsheet_id: "real-id"
sheet_tab: "Sales"
data_range: "A3:K"
currency: "USD"
business:
  name: "Acme"
columns:
  email: 2
  ticket_id: 5
  status: 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SheetTab != "Sales" || cfg.DataRange != "A3:K" || cfg.Currency != "USD" {
		t.Errorf("explicit values overridden: %+v", cfg)
	}
	if cfg.Columns.Email != 2 || cfg.Columns.Status != 10 {
		t.Errorf("explicit column map overridden: %+v", cfg.Columns)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
