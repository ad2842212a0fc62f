package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"wakely/config"
	"wakely/controllers"
	"wakely/db"
	"wakely/router"
	"wakely/tools"
	"wakely/workers"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg := config.Get(configPath)

	setupLogFile(cfg.LogPath)

	db.SetConfigurations(cfg)
	controllers.SetConfigurations(cfg)

	database, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	pushClient := tools.PushClient{
		Endpoint:  cfg.Push.Endpoint,
		ServerKey: cfg.Push.ServerKey,
	}
	workers.StartEscalationSweeper(database, cfg, pushClient)

	r := gin.New()
	r.Use(db.SetDBtoContext(database))
	router.Initialize(r, cfg)

	log.Printf("Wakely listening on :%s", cfg.ApiPort)
	log.Fatal(r.Run(":" + cfg.ApiPort))
}

// setupLogFile espelha o log no arquivo configurado (além do stderr).
func setupLogFile(path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("log file dir error: %v", err)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("log file open error: %v", err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
}
