// Package config loads server and world configuration from YAML, with
// defaults matching the standard Eos world.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all eosd settings.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	World    WorldConfig    `yaml:"world"`
	Balance  BalanceConfig  `yaml:"balance"`
	Database DatabaseConfig `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	RateLimit int    `yaml:"rate_limit"` // requests per second per client
	RateBurst int    `yaml:"rate_burst"`
}

// BodyDefinition names one celestial body and its space count.
type BodyDefinition struct {
	Name   string `yaml:"name"`
	Spaces int    `yaml:"spaces"`
}

// WorldConfig holds procedural generation settings.
type WorldConfig struct {
	Seed              int64            `yaml:"seed"` // 0 = random
	SystemName        string           `yaml:"system_name"`
	Bodies            []BodyDefinition `yaml:"bodies"`
	BodySpacing       int              `yaml:"body_spacing"` // reserved-disk buffer between bodies
	PlacementAttempts int              `yaml:"placement_attempts"`
	ResourceMin       int              `yaml:"resource_min"` // distinct resources per space
	ResourceMax       int              `yaml:"resource_max"`
}

// BalanceConfig holds game balance constants.
type BalanceConfig struct {
	StartingFuel        int `yaml:"starting_fuel"`
	LocalMoveCost       int `yaml:"local_move_cost"`
	InterBodyCost       int `yaml:"inter_body_cost"`
	SpacePortCost       int `yaml:"space_port_cost"`
	MaxSameBodyDistance int `yaml:"max_same_body_distance"`
	FuelPumpRate        int `yaml:"fuel_pump_rate"`
	FactoryCooldown     int `yaml:"factory_cooldown"` // ticks between factory builds
}

// DatabaseConfig holds optional snapshot-store settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // empty disables persistence
}

// Default returns the standard configuration: the 7-body / 170-space world.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "",
			Port:      8080,
			RateLimit: 20,
			RateBurst: 40,
		},
		World: WorldConfig{
			SystemName: "Eos System",
			Bodies: []BodyDefinition{
				{Name: "Planet 1", Spaces: 20},
				{Name: "Planet 2", Spaces: 35},
				{Name: "Planet 3", Spaces: 30},
				{Name: "Asteroid Clump", Spaces: 10},
				{Name: "Moon 1", Spaces: 15},
				{Name: "Comet", Spaces: 10},
				{Name: "Planet 4", Spaces: 50},
			},
			BodySpacing:       2,
			PlacementAttempts: 100,
			ResourceMin:       1,
			ResourceMax:       4,
		},
		Balance: BalanceConfig{
			StartingFuel:        10,
			LocalMoveCost:       1,
			InterBodyCost:       5,
			SpacePortCost:       2,
			MaxSameBodyDistance: 10,
			FuelPumpRate:        1,
			FactoryCooldown:     3,
		},
	}
}

// Load reads configuration from a YAML file, applying defaults for any
// omitted section or field.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = d.Server.RateLimit
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = d.Server.RateBurst
	}
	if c.World.SystemName == "" {
		c.World.SystemName = d.World.SystemName
	}
	if len(c.World.Bodies) == 0 {
		c.World.Bodies = d.World.Bodies
	}
	if c.World.BodySpacing == 0 {
		c.World.BodySpacing = d.World.BodySpacing
	}
	if c.World.PlacementAttempts == 0 {
		c.World.PlacementAttempts = d.World.PlacementAttempts
	}
	if c.World.ResourceMin == 0 {
		c.World.ResourceMin = d.World.ResourceMin
	}
	if c.World.ResourceMax == 0 {
		c.World.ResourceMax = d.World.ResourceMax
	}
	if c.Balance.StartingFuel == 0 {
		c.Balance.StartingFuel = d.Balance.StartingFuel
	}
	if c.Balance.LocalMoveCost == 0 {
		c.Balance.LocalMoveCost = d.Balance.LocalMoveCost
	}
	if c.Balance.InterBodyCost == 0 {
		c.Balance.InterBodyCost = d.Balance.InterBodyCost
	}
	if c.Balance.SpacePortCost == 0 {
		c.Balance.SpacePortCost = d.Balance.SpacePortCost
	}
	if c.Balance.MaxSameBodyDistance == 0 {
		c.Balance.MaxSameBodyDistance = d.Balance.MaxSameBodyDistance
	}
	if c.Balance.FuelPumpRate == 0 {
		c.Balance.FuelPumpRate = d.Balance.FuelPumpRate
	}
	if c.Balance.FactoryCooldown == 0 {
		c.Balance.FactoryCooldown = d.Balance.FactoryCooldown
	}
}
