// Package config holds the server's typed, overridable tunables: one
// Settings struct built from per-package defaults, optionally
// overridden by a YAML file on disk.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/onuse/cubeworld/bandwidth"
	"github.com/onuse/cubeworld/lod"
	"github.com/onuse/cubeworld/loader"
	"github.com/onuse/cubeworld/session"
	"github.com/onuse/cubeworld/streaming"
)

// ServerSettings are the top-level network/process tunables.
type ServerSettings struct {
	Port     int `yaml:"port"`
	TickRate int `yaml:"tickRate"`
}

// AuthSettings configures session token issuance. Secret is read from
// disk/YAML rather than hardcoded; an empty value at startup is a
// misconfiguration the caller should refuse to run with.
type AuthSettings struct {
	JWTSecret  string `yaml:"jwtSecret"`
	TokenTTLMs int64  `yaml:"tokenTtlMs"`
}

// Settings aggregates every package's tunables into one loadable
// document, mirroring the teacher's single-Settings-struct shape
// while replacing its icosphere/GPU fields with this domain's.
type Settings struct {
	Server    ServerSettings     `yaml:"server"`
	Auth      AuthSettings       `yaml:"auth"`
	Bandwidth bandwidth.Config   `yaml:"bandwidth"`
	Streaming streaming.Config   `yaml:"streaming"`
	Loader    loader.Config      `yaml:"loader"`
	Grace     session.GraceConfig `yaml:"grace"`
	VoxelBudget uint64 `yaml:"voxelBudgetBytes"`
	MeshBudget  uint64 `yaml:"meshBudgetBytes"`
}

// Default returns the baseline settings assembled from every
// package's own Default*Config, the values a fresh server starts with
// before any YAML override is applied.
func Default() Settings {
	budget := lod.DefaultBudgetConfig()
	return Settings{
		Server: ServerSettings{
			Port:     8080,
			TickRate: 60,
		},
		Auth: AuthSettings{
			TokenTTLMs: int64(24 * 60 * 60 * 1000),
		},
		Bandwidth:   bandwidth.DefaultConfig(),
		Streaming:   streaming.DefaultConfig(),
		Loader:      loader.DefaultConfig(),
		Grace:       session.DefaultGraceConfig(),
		VoxelBudget: budget.VoxelBudget,
		MeshBudget:  budget.MeshBudget,
	}
}

// Load returns Default(), overridden by path if it exists. A missing
// file is not an error — the caller runs on defaults, same as the
// teacher's settings.json fallback.
func Load(path string) (Settings, error) {
	settings := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&settings); err != nil {
		return settings, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return settings, nil
}

// BudgetConfig reassembles the lod package's BudgetConfig from the
// flattened Settings fields.
func (s Settings) BudgetConfig() lod.BudgetConfig {
	return lod.BudgetConfig{VoxelBudget: s.VoxelBudget, MeshBudget: s.MeshBudget}
}
