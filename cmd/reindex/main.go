package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/config"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/database"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/logger"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/repository"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/search"
)

// Rebuilds the Elasticsearch train index from Postgres. Run after restoring
// a database backup or when the index drifts from the catalog.
func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, "text")

	slog.Info("Starting train reindex")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err.Error())
	}
	defer db.Close()

	searchIdx, err := search.NewClient(search.Config{
		URL:        cfg.Search.URL,
		Index:      cfg.Search.Index,
		Username:   cfg.Search.Username,
		Password:   cfg.Search.Password,
		MaxRetries: cfg.Search.MaxRetries,
	})
	if err != nil {
		logger.Fatal("Failed to connect to elasticsearch", "error", err.Error())
	}

	repos := repository.NewRepositories(db)
	ctx := context.Background()

	start := time.Now()
	trains, err := repos.Trains.ListActive(ctx)
	if err != nil {
		logger.Fatal("Failed to load trains", "error", err.Error())
	}

	indexed := 0
	for i := range trains {
		if err := searchIdx.IndexTrain(ctx, &trains[i]); err != nil {
			slog.Error("Failed to index train",
				"train_id", trains[i].ID,
				"number", trains[i].Number,
				"error", err.Error(),
			)
			continue
		}
		indexed++
	}

	if indexed < len(trains) {
		slog.Warn("Reindex finished with failures",
			"indexed", indexed,
			"total", len(trains),
			"elapsed", time.Since(start).String(),
		)
		os.Exit(1)
	}

	slog.Info("Reindex completed",
		"indexed", indexed,
		"elapsed", time.Since(start).String(),
	)
}
