package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/example/leitbot/internal/database"
	"github.com/example/leitbot/internal/excel"
	"github.com/example/leitbot/internal/leitner"
	"github.com/example/leitbot/internal/notifier"
	"github.com/example/leitbot/internal/scheduler"
	"github.com/example/leitbot/internal/study"
)

func main() {
	importFile := flag.String("import", "", "import vocabulary from an Excel or CSV file and exit")
	flag.Parse()

	// .env is optional; environment variables win either way
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	db, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	cardRepo := database.NewCardRepository(db)
	learnerRepo := database.NewLearnerRepository(db)
	wordRepo := database.NewWordRepository(db)

	if *importFile != "" {
		cfg := excel.DefaultImportConfig()
		cfg.FilePath = *importFile
		result, err := excel.ImportWords(context.Background(), cfg, wordRepo)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Import finished: %d processed, %d created, %d updated, %d skipped, %d errors",
			result.TotalProcessed, result.Created, result.Updated, result.Skipped, len(result.Errors))
		for _, e := range result.Errors {
			log.Printf("  %s", e)
		}
		return
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	tg, err := notifier.NewTelegram(token)
	if err != nil {
		log.Fatalf("Failed to create notifier: %v", err)
	}

	service := study.New(cardRepo, learnerRepo, wordRepo, leitner.New())
	if n, err := service.PreloadVocabulary(context.Background()); err != nil {
		log.Printf("Warning: could not preload vocabulary: %v", err)
	} else {
		log.Printf("Preloaded %d vocabulary words", n)
	}

	sched := scheduler.New(tg, learnerRepo, cardRepo, service)
	sched.Start()
	log.Println("Scheduler started. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)

	sched.Stop()
	log.Println("Scheduler stopped successfully")
}
