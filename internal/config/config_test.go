package config

import "testing"

func TestParseDefaults(t *testing.T) {
	opts, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opts.BindAddr != "127.0.0.1" {
		t.Errorf("BindAddr = %q, want 127.0.0.1", opts.BindAddr)
	}
	if opts.StartPort != 3333 {
		t.Errorf("StartPort = %d, want 3333", opts.StartPort)
	}
	if opts.EntryPath != "." {
		t.Errorf("EntryPath = %q, want .", opts.EntryPath)
	}
}

func TestParseFlags(t *testing.T) {
	opts, err := Parse([]string{"--bind", "0.0.0.0", "--port", "9000", "--no-open", "--verbose", "docs/"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opts.BindAddr != "0.0.0.0" {
		t.Errorf("BindAddr = %q", opts.BindAddr)
	}
	if opts.StartPort != 9000 {
		t.Errorf("StartPort = %d", opts.StartPort)
	}
	if !opts.NoOpen || !opts.Verbose {
		t.Errorf("NoOpen/Verbose not set: %+v", opts)
	}
	if opts.EntryPath != "docs/" {
		t.Errorf("EntryPath = %q", opts.EntryPath)
	}
}

func TestParseEnvOverride(t *testing.T) {
	t.Setenv("MDMD_BIND", "10.0.0.1")
	t.Setenv("MDMD_PORT", "4444")
	opts, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opts.BindAddr != "10.0.0.1" {
		t.Errorf("BindAddr = %q, want env override", opts.BindAddr)
	}
	if opts.StartPort != 4444 {
		t.Errorf("StartPort = %d, want env override", opts.StartPort)
	}
}

func TestParseFlagOverridesEnv(t *testing.T) {
	t.Setenv("MDMD_PORT", "4444")
	opts, err := Parse([]string{"--port", "5555"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opts.StartPort != 5555 {
		t.Errorf("StartPort = %d, want flag to win over env", opts.StartPort)
	}
}
