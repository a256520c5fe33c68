package server

import (
	"encoding/json"
	"fmt"
	"os"

	"EvoScope/internal/sim"
)

// Config is the resolved server configuration: defaults, overlaid by the
// optional JSON config file, overlaid by CLI overrides, in that order.
type Config struct {
	Addr        string
	MaxSessions int
	QueueDepth  int
	LogLevel    string
	Seed        int64
	Organisms   int
	Plants      int
}

func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		MaxSessions: 64,
		QueueDepth:  32,
		LogLevel:    "info",
		Seed:        1,
		Organisms:   sim.DefaultGenOptions().Organisms,
		Plants:      sim.DefaultGenOptions().Plants,
	}
}

type fileConfig struct {
	Addr        *string `json:"addr"`
	MaxSessions *int    `json:"maxSessions"`
	QueueDepth  *int    `json:"queueDepth"`
	LogLevel    *string `json:"logLevel"`
	Seed        *int64  `json:"seed"`
	Organisms   *int    `json:"organisms"`
	Plants      *int    `json:"plants"`
}

// Overrides carries optional CLI values; nil fields leave the base alone.
type Overrides struct {
	Addr      *string
	Seed      *int64
	Organisms *int
	Plants    *int
}

func (o Overrides) Apply(base Config) Config {
	if o.Addr != nil {
		base.Addr = *o.Addr
	}
	if o.Seed != nil {
		base.Seed = *o.Seed
	}
	if o.Organisms != nil {
		base.Organisms = *o.Organisms
	}
	if o.Plants != nil {
		base.Plants = *o.Plants
	}
	return base
}

// LoadConfig reads the JSON config file and merges it over base. A missing
// file is not an error; the defaults simply stand.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	if fc.Addr != nil {
		base.Addr = *fc.Addr
	}
	if fc.MaxSessions != nil {
		base.MaxSessions = *fc.MaxSessions
	}
	if fc.QueueDepth != nil {
		base.QueueDepth = *fc.QueueDepth
	}
	if fc.LogLevel != nil {
		base.LogLevel = *fc.LogLevel
	}
	if fc.Seed != nil {
		base.Seed = *fc.Seed
	}
	if fc.Organisms != nil {
		base.Organisms = *fc.Organisms
	}
	if fc.Plants != nil {
		base.Plants = *fc.Plants
	}
	return base, nil
}
