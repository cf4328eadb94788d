package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log  LogConfig `yaml:"log"`
	Game struct {
		TotalLevels       int   `yaml:"total_levels"`
		QuestionsPerLevel int   `yaml:"questions_per_level"`
		// Seed makes sampling reproducible when non-zero; it is mixed with each player id.
		Seed int64 `yaml:"seed"`
	} `yaml:"game"`
	Bank struct {
		// Driver is one of file, postgres or sqlite.
		Driver string `yaml:"driver"`
		// Source is a file path for the file driver and a bank id otherwise.
		Source string `yaml:"source"`
		SQLite string `yaml:"sqlite"`
		TTL    string `yaml:"ttl"`
	} `yaml:"bank"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Game.TotalLevels = 10
	cfg.Game.QuestionsPerLevel = 5
	cfg.Bank.Driver = "file"
	cfg.Bank.Source = "questions.json"
	return cfg
}

// Load reads YAML config from path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
