package config

import "testing"

func TestLoadBot(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("MASTER_ID", "42")
	t.Setenv("DATABASE_URL", "postgres://bot:pw@localhost:5432/ledger")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.Token != "123:abc" {
		t.Fatalf("Token = %q", cfg.Token)
	}
	if cfg.MasterID != 42 {
		t.Fatalf("MasterID = %d, want 42", cfg.MasterID)
	}
	if cfg.APIBaseURL != "https://api.telegram.org" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.PollTimeout != 30 {
		t.Fatalf("PollTimeout = %d, want 30", cfg.PollTimeout)
	}
}

func TestLoadBotZeroMaster(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("MASTER_ID", "0")
	t.Setenv("DATABASE_URL", "postgres://localhost/ledger")

	if _, err := LoadBot(); err == nil {
		t.Fatal("expected error for MASTER_ID=0")
	}
}

func TestNormalizeDatabaseURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "legacy scheme kept", in: "postgres://u:p@h/db", want: "postgres://u:p@h/db"},
		{name: "modern scheme rewritten", in: "postgresql://u:p@h/db", want: "postgres://u:p@h/db"},
		{name: "surrounding whitespace trimmed", in: "  postgres://h/db\n", want: "postgres://h/db"},
		{name: "other scheme rejected", in: "mysql://h/db", wantErr: true},
		{name: "empty rejected", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDatabaseURL(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeDatabaseURL(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadLogDefaults(t *testing.T) {
	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "info" {
		t.Fatalf("Level = %q, want info", cfg.Level)
	}
	if cfg.Pretty {
		t.Fatal("Pretty should default to false")
	}
	if cfg.MaxMB != 10 {
		t.Fatalf("MaxMB = %d, want 10", cfg.MaxMB)
	}
}
