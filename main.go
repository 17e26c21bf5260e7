package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"

	"gradebook/adapters/excel"
	"gradebook/app"
	"gradebook/internal/config"
	"gradebook/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	excelConfig := excel.DefaultExcelConfig()
	excelConfig.FilePath = appConfig.Data.File
	excelConfig.SheetName = appConfig.Data.SheetName

	store, err := excel.NewStore(excelConfig)
	if err != nil {
		log.Fatalf("Failed to configure student store: %v", err)
	}
	log.Printf("Using student data file: %s", store.Path())

	roster := app.NewRosterService(store, appConfig.Data.HistogramBuckets)
	if err := roster.Init(); err != nil {
		log.Fatalf("Failed to initialize student store: %v", err)
	}

	server, err := ui.NewServer(roster, ui.Options{
		Title:          appConfig.UI.Title,
		FooterMarkdown: appConfig.UI.FooterMarkdown,
	})
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("Performance profiling server starting on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				log.Printf("pprof server failed: %v", err)
			}
		}()
	}

	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
