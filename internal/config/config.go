package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skylineglobal/invoice-mailer/internal/invoice"
)

// PlaceholderSpreadsheetID is the value shipped in the sample config. A run
// is refused until it has been replaced with a real sheet ID.
const PlaceholderSpreadsheetID = "YOUR_SHEET_ID_HERE"

// Business holds the identity block printed at the top of every invoice.
type Business struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
}

// Email holds the outbound message templates. Placeholders {client},
// {invoice_no}, {invoice_date}, {due_date}, {currency}, {amount} and
// {business} are substituted per row.
type Email struct {
	SubjectTemplate string `yaml:"subject_template"`
	BodyTemplate    string `yaml:"body_template"`
}

// Config is the full, immutable configuration for one batch run. It is loaded
// once at startup and passed into each component at construction.
type Config struct {
	SpreadsheetID string `yaml:"spreadsheet_id"`
	SheetTab      string `yaml:"sheet_tab"`
	// DataRange is the cell range read on each run, without the tab prefix,
	// e.g. "A2:J" so row 1 can hold headers.
	DataRange string `yaml:"data_range"`

	Columns invoice.ColumnMap `yaml:"columns"`

	Business Business `yaml:"business"`
	Currency string   `yaml:"currency"`

	// LogoPath is an optional path to a PNG/JPG logo, either a local file or
	// a gs:// URI. An empty value renders invoices without a logo.
	LogoPath string `yaml:"logo_path"`

	Email Email `yaml:"email"`

	Scopes []string `yaml:"scopes"`

	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.SheetTab == "" {
		cfg.SheetTab = "Sheet1"
	}
	if cfg.DataRange == "" {
		cfg.DataRange = "A2:J"
	}
	if cfg.Columns == (invoice.ColumnMap{}) {
		cfg.Columns = invoice.DefaultColumns()
	}
	if cfg.Currency == "" {
		cfg.Currency = "LKR"
	}
	if cfg.Email.SubjectTemplate == "" {
		cfg.Email.SubjectTemplate = "Invoice #{invoice_no} from {business}"
	}
	if cfg.Email.BodyTemplate == "" {
		cfg.Email.BodyTemplate = "Hello {client},\n\n" +
			"Please find attached your invoice #{invoice_no} dated {invoice_date} for {currency} {amount}.\n\n\n" +
			"Best regards,\n{business}\n"
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{
			"https://www.googleapis.com/auth/gmail.send",
			"https://www.googleapis.com/auth/spreadsheets",
		}
	}
	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = "credentials.json"
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = "token.json"
	}
}

// Validate is the pre-flight check: it refuses placeholder or missing values
// before any network call is made.
func (c *Config) Validate() error {
	if c.SpreadsheetID == "" || c.SpreadsheetID == PlaceholderSpreadsheetID {
		return fmt.Errorf("spreadsheet_id is not set (still %q)", PlaceholderSpreadsheetID)
	}
	if c.Business.Name == "" {
		return fmt.Errorf("business.name is required")
	}
	return nil
}
