package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Agent struct {
		InitialCapital float64 `yaml:"initial_capital"`
		Mode           string  `yaml:"mode"`
		CycleMinutes   int     `yaml:"cycle_minutes"`
		HistoryDays    int     `yaml:"history_days"`
		MinCash        float64 `yaml:"min_cash"`
		WatchlistPath  string  `yaml:"watchlist_path"`
	} `yaml:"agent"`
	Rotation struct {
		ScoreThreshold float64 `yaml:"score_threshold"`
	} `yaml:"rotation"`
	MarketData struct {
		YahooEndpoint   string `yaml:"yahoo_endpoint"`
		CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
		FinnhubEndpoint string `yaml:"finnhub_endpoint"`
		FinnhubAPIKey   string `yaml:"finnhub_api_key"`
	} `yaml:"market_data"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	AI struct {
		GeminiAPIKey string `yaml:"gemini_api_key"`
		Model        string `yaml:"model"`
	} `yaml:"ai"`
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
}

// Load reads the yaml config and applies environment overrides. A .env
// file in the working directory is read if present; real environment
// variables win over both.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.MarketData.FinnhubAPIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.AI.GeminiAPIKey = v
	}
	if v := os.Getenv("AGENT_MODE"); v != "" {
		c.Agent.Mode = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Agent.InitialCapital == 0 {
		c.Agent.InitialCapital = 10000
	}
	if c.Agent.Mode == "" {
		c.Agent.Mode = "analyze"
	}
	if c.Agent.CycleMinutes == 0 {
		c.Agent.CycleMinutes = 60
	}
	if c.Agent.HistoryDays == 0 {
		c.Agent.HistoryDays = 365
	}
	if c.Agent.MinCash == 0 {
		c.Agent.MinCash = 10
	}
	if c.Agent.WatchlistPath == "" {
		c.Agent.WatchlistPath = "config/watchlist.json"
	}
	if c.Rotation.ScoreThreshold == 0 {
		c.Rotation.ScoreThreshold = 0.02
	}
	if c.MarketData.YahooEndpoint == "" {
		c.MarketData.YahooEndpoint = "https://query1.finance.yahoo.com"
	}
	if c.MarketData.CacheTTLMinutes == 0 {
		c.MarketData.CacheTTLMinutes = 60
	}
	if c.MarketData.FinnhubEndpoint == "" {
		c.MarketData.FinnhubEndpoint = "wss://ws.finnhub.io"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "agent.db"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.0-flash"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
}
