package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "riftgrade.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Scoring.MinReliableSamples != 30 {
		t.Errorf("MinReliableSamples = %d, want 30", cfg.Scoring.MinReliableSamples)
	}
	if !cfg.Ingest.SubCohorts {
		t.Error("sub-cohorts should default on")
	}
	if cfg.Combat.TeamfightWindowMS != 10_000 {
		t.Errorf("TeamfightWindowMS = %d, want 10000", cfg.Combat.TeamfightWindowMS)
	}
	if cfg.Extract.RemakeFloorSec != 300 {
		t.Errorf("RemakeFloorSec = %d, want 300", cfg.Extract.RemakeFloorSec)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riftgrade.yaml")
	yaml := []byte("db_path: /tmp/other.db\nscoring:\n  decay_constant: 7\ncombat:\n  teamfight_radius: 2500\nriot:\n  base_url: https://europe.api.riotgames.com\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Scoring.DecayConstant != 7 {
		t.Errorf("DecayConstant = %v, want 7", cfg.Scoring.DecayConstant)
	}
	if cfg.Combat.TeamfightRadius != 2500 {
		t.Errorf("TeamfightRadius = %v, want 2500", cfg.Combat.TeamfightRadius)
	}
	if cfg.Riot.BaseURL != "https://europe.api.riotgames.com" {
		t.Errorf("BaseURL = %q", cfg.Riot.BaseURL)
	}
	// Untouched keys keep their defaults.
	if cfg.Scoring.ZSlope != 25 {
		t.Errorf("ZSlope = %v, want default 25", cfg.Scoring.ZSlope)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riftgrade.yaml")
	if err := os.WriteFile(path, []byte("db_path: from-file.db\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RIFTGRADE_DB_PATH", "from-env.db")
	t.Setenv("RIFTGRADE_RIOT_API_KEY", "RGAPI-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "from-env.db" {
		t.Errorf("DBPath = %q, want env to win", cfg.DBPath)
	}
	if cfg.Riot.APIKey != "RGAPI-test" {
		t.Errorf("APIKey = %q", cfg.Riot.APIKey)
	}
}

func TestLoadRejectsEmptyDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riftgrade.yaml")
	if err := os.WriteFile(path, []byte("db_path: \"\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an empty db_path")
	}
}

func TestWeightOverridesMergeOverDefaults(t *testing.T) {
	cfg := Default()
	cfg.Scoring.Weights = map[string]float64{"kda": 0.2}
	w := cfg.Weights()
	if w["kda"] != 0.2 {
		t.Errorf("kda weight = %v, want override 0.2", w["kda"])
	}
	if w["item_core"] != 0.10 {
		t.Errorf("item_core weight = %v, want default 0.10", w["item_core"])
	}
}
