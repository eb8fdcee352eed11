package config

import (
	"os"
	"testing"
)

func TestPort_Default(t *testing.T) {
	os.Unsetenv(EnvPort)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("default Port = %d, want %d", cfg.Port(), DefaultPort)
	}
}

func TestPort_FromEnv(t *testing.T) {
	os.Setenv(EnvPort, "9001")
	defer os.Unsetenv(EnvPort)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9001 {
		t.Errorf("Port = %d, want 9001", cfg.Port())
	}
}

func TestPort_Invalid(t *testing.T) {
	tests := []string{"not-a-number", "0", "70000"}
	for _, v := range tests {
		t.Run(v, func(t *testing.T) {
			os.Setenv(EnvPort, v)
			defer os.Unsetenv(EnvPort)

			if _, err := New(); err == nil {
				t.Errorf("New() with %s=%q should fail", EnvPort, v)
			}
		})
	}
}

func TestHeadless_FromEnv(t *testing.T) {
	os.Setenv(EnvHeadless, "true")
	defer os.Unsetenv(EnvHeadless)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Headless() {
		t.Error("Headless() = false, want true")
	}
}

func TestFrameRate_Default(t *testing.T) {
	os.Unsetenv(EnvFrameRate)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FrameRate() != DefaultFrameRate {
		t.Errorf("default FrameRate = %v, want %v", cfg.FrameRate(), DefaultFrameRate)
	}
}

func TestFrameRate_Invalid(t *testing.T) {
	os.Setenv(EnvFrameRate, "-24")
	defer os.Unsetenv(EnvFrameRate)

	if _, err := New(); err == nil {
		t.Error("New() with negative frame rate should fail")
	}
}

func TestDBPath_UsesDataDir(t *testing.T) {
	os.Setenv(EnvDataDir, "/tmp/trimdeck-test")
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath() != "/tmp/trimdeck-test/"+DBFilename {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
}
