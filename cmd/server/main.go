package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/whosturn/server/internal/api"
	"github.com/whosturn/server/internal/config"
	"github.com/whosturn/server/internal/repositories"
)

// @title WhosTurn API
// @version 1.0
// @description Turn tracking for pairs of users sharing recurring expenses.
// @BasePath /
func main() {
	repositories.ConnectDatabase()

	r2 := config.Envs.R2
	if r2.AccountID != "" {
		err := repositories.InitR2(r2.AccessKeyID, r2.SecretAccessKey, r2.AccountID, r2.BucketName, r2.Region, r2.PublicBaseURL)
		if err != nil {
			log.Fatal("Failed to initialize R2:", err)
		}
	} else {
		log.Println("R2 not configured, avatar uploads disabled")
	}

	mux := api.SetupRouter()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Envs.Port),
		Handler: mux,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting WhosTurn server on port: %s", config.Envs.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", config.Envs.Port, err)
	}
}
