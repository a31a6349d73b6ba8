package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFile_Valid(t *testing.T) {
	path := writeConfig(t, "base_daily_rate: 215.5\ncase_mix_index:\n  RUX: 3.5\n  ia2: 1.2\nworkers: 4\n")

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.BaseDailyRate != 215.5 {
		t.Errorf("expected base rate 215.5, got %v", c.BaseDailyRate)
	}
	if c.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", c.Workers)
	}
	if len(c.Engine.CaseMixIndex) != 2 {
		t.Errorf("expected 2 overrides, got %v", c.Engine.CaseMixIndex)
	}
}

func TestLoadFromFile_FlagsWin(t *testing.T) {
	path := writeConfig(t, "base_daily_rate: 215.5\n")

	c := Config{BaseDailyRate: 300}
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.BaseDailyRate != 300 {
		t.Errorf("flag value should win, got %v", c.BaseDailyRate)
	}
}

func TestLoadFromFile_UnknownCategory(t *testing.T) {
	path := writeConfig(t, "case_mix_index:\n  RUX: 3.5\n  BOGUS: 1.0\n")

	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for unknown RUG category")
	}
}

func TestLoadFromFile_NonPositiveIndex(t *testing.T) {
	path := writeConfig(t, "case_mix_index:\n  SSA: 0\n")

	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for zero case-mix index")
	}
}

func TestLoadFromFile_CaseMixMatchesEngineTable(t *testing.T) {
	path := writeConfig(t, "case_mix_index:\n  \" rux \": 3.5\n")
	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("padded category name should load: %v", err)
	}

	path = writeConfig(t, "case_mix_index:\n  IA2: .nan\n")
	c = Config{}
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for NaN case-mix index")
	}
}

func TestLoadFromFile_DefaultConditions(t *testing.T) {
	path := writeConfig(t, "complex_medical_conditions: []\n")

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if len(c.Engine.ComplexMedicalConditions) != 7 {
		t.Errorf("expected 7 default conditions, got %d: %v",
			len(c.Engine.ComplexMedicalConditions), c.Engine.ComplexMedicalConditions)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	if err := c.LoadFromFile("/nonexistent/engine.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"positive", Config{BaseDailyRate: 200}, false},
		{"zero", Config{BaseDailyRate: 0}, true},
		{"negative", Config{BaseDailyRate: -1}, true},
		{"negative minutes", Config{BaseDailyRate: 200, TherapyMinutes: -5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateRate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWithDSN_RequiresDSN(t *testing.T) {
	c := Config{BaseDailyRate: 200}
	if err := c.ValidateWithDSN(); err == nil {
		t.Fatal("expected error without DSN")
	}
	c.DSN = "postgres://localhost/care"
	if err := c.ValidateWithDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadServer_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BASE_DAILY_RATE", "250")
	t.Setenv("PORT", "")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer: %v", err)
	}
	if cfg.BaseDailyRate != 250 {
		t.Errorf("expected BASE_DAILY_RATE 250, got %v", cfg.BaseDailyRate)
	}
	if cfg.RateLimitBurst != 100 {
		t.Errorf("expected default burst 100, got %d", cfg.RateLimitBurst)
	}
	if cfg.HasDatabase() {
		t.Error("expected no database configured")
	}
}

func TestServerConfig_Validate(t *testing.T) {
	ok := ServerConfig{Port: "8080", BaseDailyRate: 200, LogFormat: "json", RateLimitRPS: 10, RateLimitBurst: 20}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noRate := ok
	noRate.BaseDailyRate = 0
	if err := noRate.Validate(); err == nil {
		t.Error("expected error without base rate or engine config")
	}

	badFormat := ok
	badFormat.LogFormat = "xml"
	if err := badFormat.Validate(); err == nil {
		t.Error("expected error for unknown log format")
	}
}
