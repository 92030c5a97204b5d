package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	if err == nil {
		t.Fatal("LoadConfig on empty dir returned nil error")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := Default()
	cfg.DefaultReduction = 10
	cfg.ListenAddr = "127.0.0.1:9000"
	if err := SaveConfig(tmpDir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded config = %+v, want %+v", *loaded, *cfg)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfgDir := filepath.Join(tmpDir, DirName)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatalf("failed to create %s dir: %v", DirName, err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte(`{"slider_max":30}`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.SliderMax != 30 {
		t.Errorf("SliderMax = %v, want 30", cfg.SliderMax)
	}
	if cfg.ListenAddr != ":8050" {
		t.Errorf("ListenAddr = %q, want default :8050", cfg.ListenAddr)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	cfgDir := filepath.Join(tmpDir, DirName)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatalf("failed to create %s dir: %v", DirName, err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte(`{not json`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfig(tmpDir); err == nil {
		t.Error("LoadConfig on malformed file returned nil error")
	}
	if _, err := Resolve(tmpDir); err == nil {
		t.Error("Resolve on malformed file returned nil error")
	}
}

func TestResolve_DefaultsAndEnv(t *testing.T) {
	t.Setenv(EnvListenAddr, ":7000")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvDefaultReduction, "12.5")

	cfg, err := Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.ListenAddr != ":7000" {
		t.Errorf("ListenAddr = %q, want :7000", cfg.ListenAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.DefaultReduction != 12.5 {
		t.Errorf("DefaultReduction = %v, want 12.5", cfg.DefaultReduction)
	}
}

func TestResolve_BadEnvReduction(t *testing.T) {
	t.Setenv(EnvDefaultReduction, "lots")
	if _, err := Resolve(t.TempDir()); err == nil {
		t.Error("Resolve with non-numeric reduction returned nil error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "slider max above hundred", mutate: func(c *Config) { c.SliderMax = 120 }, wantErr: true},
		{name: "zero step", mutate: func(c *Config) { c.SliderStep = 0 }, wantErr: true},
		{name: "default beyond slider", mutate: func(c *Config) { c.DefaultReduction = 60 }, wantErr: true},
		{name: "negative default", mutate: func(c *Config) { c.DefaultReduction = -1 }, wantErr: true},
		{name: "zero chart width", mutate: func(c *Config) { c.ChartWidth = 0 }, wantErr: true},
		{name: "no workers", mutate: func(c *Config) { c.SweepWorkers = 0 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "chatty" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
