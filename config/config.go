package config

import (
	"encoding/json"
	"log"
	"os"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	Security struct {
		JwtSecret      string `json:"jwt_secret"`
		VerifyCodeLen  int    `json:"verify_code_len"`
		TokenValidDays int    `json:"token_valid_days"`
	} `json:"security"`

	Phone struct {
		// DDI usado quando o número vem sem '+' (ex: "1" para US, "55" para BR).
		DefaultCountryCode string `json:"default_country_code"`
	} `json:"phone"`

	Escalation struct {
		SweepIntervalSeconds int `json:"sweep_interval_seconds"`
		SweepBatchSize       int `json:"sweep_batch_size"`
	} `json:"escalation"`

	Push struct {
		Endpoint  string `json:"endpoint"`
		ServerKey string `json:"server_key"`
	} `json:"push"`
}

func Get(path string) Configuration {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}

	// defaults (pra evitar nil/zero chato)
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Security.VerifyCodeLen <= 0 {
		c.Security.VerifyCodeLen = 6
	}
	if c.Security.TokenValidDays <= 0 {
		c.Security.TokenValidDays = 30
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}
	if c.Phone.DefaultCountryCode == "" {
		c.Phone.DefaultCountryCode = "1"
	}
	if c.Escalation.SweepIntervalSeconds <= 0 {
		// o design aceita granularidade de minuto no servidor
		c.Escalation.SweepIntervalSeconds = 60
	}
	if c.Escalation.SweepBatchSize <= 0 {
		c.Escalation.SweepBatchSize = 50
	}

	return c
}
