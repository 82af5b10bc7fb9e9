// Command refresh-statuses runs one pass of the certificate status sweep and
// exits. Intended to be triggered by cron; the API process never schedules
// the sweep on its own.
package main

import (
	"log"
	"os"

	"certificate-management-api/config"
	"certificate-management-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	config.InitDB()

	statuses := services.NewStatusService(config.DB)
	updated, failed, err := statuses.RefreshAll()
	if err != nil {
		log.Fatalf("status sweep failed: %v", err)
	}
	log.Printf("status sweep: %d updated, %d failed", updated, failed)

	notifier := services.NewExpiryNotifier(config.DB)
	notified, err := notifier.NotifyExpiring()
	if err != nil {
		log.Printf("expiry notification failed: %v", err)
	} else if notified > 0 {
		log.Printf("expiry notification sent for %d certificate(s)", notified)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
