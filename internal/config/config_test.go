package config

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"3d":  72 * time.Hour,
		"0d":  0,
		"90m": 90 * time.Minute,
		"24h": 24 * time.Hour,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseDuration(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseDuration("xd"); err == nil {
		t.Fatal("expected error for invalid day count")
	}
}

func TestParseWindows(t *testing.T) {
	windows, err := ParseWindows(DefaultReminderWindows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if windows[0].Label != "3_days" || windows[0].LeadTime != 72*time.Hour {
		t.Fatalf("unexpected first window %+v", windows[0])
	}
	if windows[1].Label != "1_day" || windows[1].LeadTime != 24*time.Hour {
		t.Fatalf("unexpected second window %+v", windows[1])
	}
}

func TestParseWindowsRejectsBadInput(t *testing.T) {
	for _, in := range []string{"1_day", "=1d", "1_day=soon", "1_day=1d,1_day=2d"} {
		if _, err := ParseWindows(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REMINDER_WINDOWS", "")
	t.Setenv("BUSINESS_TIMEZONE", "Europe/Rome")
	t.Setenv("DISPLAY_TIMEZONE", "")
	t.Setenv("GOOGLE_SSL_VERIFY", "false")
	t.Setenv("REMINDER_STATUSES", "scheduled, confirmed ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DisplayTimezone != "Europe/Rome" {
		t.Fatalf("display timezone should default to business timezone, got %q", cfg.DisplayTimezone)
	}
	if cfg.Calendar.SSLVerify {
		t.Fatal("expected SSL verification disabled")
	}
	if cfg.Calendar.LookBack != 30*24*time.Hour || cfg.Calendar.LookAhead != 30*24*time.Hour {
		t.Fatalf("unexpected sync window %v/%v", cfg.Calendar.LookBack, cfg.Calendar.LookAhead)
	}
	if len(cfg.Reminders.ActiveStatuses) != 2 || cfg.Reminders.ActiveStatuses[1] != "confirmed" {
		t.Fatalf("unexpected statuses %v", cfg.Reminders.ActiveStatuses)
	}
	if cfg.Addr() != ":"+cfg.ServerPort {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
}
