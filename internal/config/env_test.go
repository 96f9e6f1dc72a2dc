package config

import (
	"testing"
	"time"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"no", false},
		{"1", true},
		{"true", true},
		{"yes", true},
	}
	for _, tt := range tests {
		if got := truthy(tt.in); got != tt.want {
			t.Errorf("truthy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"2s", 2 * time.Second},
		{"500ms", 500 * time.Millisecond},
		{"3", 3 * time.Second},
		{"-1", 0},
		{"bogus", 0},
	}
	for _, tt := range tests {
		if got := duration(tt.in); got != tt.want {
			t.Errorf("duration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvKeep, "1")
	t.Setenv(EnvSilent, "")
	t.Setenv(EnvDebug, "true")
	t.Setenv(EnvMaxAttempts, "7")
	t.Setenv(EnvGuardInterval, "250ms")
	t.Setenv(EnvHelper, "/opt/bin/tmpdb")

	env := FromEnv()
	if !env.Keep || env.Silent || !env.Debug {
		t.Errorf("boolean overrides misread: %+v", env)
	}
	if env.MaxAttempts != 7 {
		t.Errorf("MaxAttempts = %d, want 7", env.MaxAttempts)
	}
	if env.GuardInterval != 250*time.Millisecond {
		t.Errorf("GuardInterval = %v", env.GuardInterval)
	}
	if env.Helper != "/opt/bin/tmpdb" {
		t.Errorf("Helper = %q", env.Helper)
	}
}
