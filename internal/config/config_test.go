package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("STORAGE_PATH", "")
	t.Setenv("REPLY_DELAY_DISABLED", "")
	t.Setenv("JOURNAL_RECENT_LIMIT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Storage.Backend != "bolt" || cfg.Storage.Path != "./data" {
		t.Fatalf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.Companion.DelayDisabled || cfg.Companion.JournalRecentLimit != 3 {
		t.Fatalf("unexpected companion config %+v", cfg.Companion)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("STORAGE_BACKEND", "SQLite")
	t.Setenv("REPLY_DELAY_DISABLED", "true")
	t.Setenv("JOURNAL_RECENT_LIMIT", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Fatalf("backend should be normalized, got %q", cfg.Storage.Backend)
	}
	if !cfg.Companion.DelayDisabled || cfg.Companion.JournalRecentLimit != 1 {
		t.Fatalf("unexpected companion config %+v", cfg.Companion)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":                 "80 80",
		"STORAGE_BACKEND":      "redis",
		"REPLY_DELAY_DISABLED": "maybe",
		"JOURNAL_RECENT_LIMIT": "three",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}
