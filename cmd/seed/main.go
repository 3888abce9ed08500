package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/config"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/database"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/logger"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/repository"
)

var (
	adminEmail    = flag.String("admin-email", "admin@railbook.local", "Email for the seeded admin account")
	adminPassword = flag.String("admin-password", "admin123", "Password for the seeded admin account")
	dryRun        = flag.Bool("dry-run", false, "Show what would be seeded without making changes")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, "text")

	slog.Info("Starting seeder...")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	repos := repository.NewRepositories(db)
	ctx := context.Background()

	if *dryRun {
		slog.Info("Dry run", "trains", len(sampleTrains()), "admin_email", *adminEmail)
		return
	}

	if err := seedAdmin(ctx, repos); err != nil {
		slog.Error("Failed to seed admin user", "error", err)
		os.Exit(1)
	}

	created, err := seedTrains(ctx, repos)
	if err != nil {
		slog.Error("Failed to seed trains", "error", err)
		os.Exit(1)
	}

	slog.Info("Seeding completed", "trains_created", created)
}

func seedAdmin(ctx context.Context, repos *repository.Repositories) error {
	existing, err := repos.Users.GetByEmail(ctx, *adminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		slog.Info("Admin user already exists", "email", *adminEmail)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        *adminEmail,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := repos.Users.Create(ctx, admin); err != nil {
		return err
	}

	slog.Info("Seeded admin user", "email", *adminEmail, "id", admin.ID)
	return nil
}

func seedTrains(ctx context.Context, repos *repository.Repositories) (int, error) {
	existing, err := repos.Trains.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t.Number] = true
	}

	created := 0
	for _, train := range sampleTrains() {
		if seen[train.Number] {
			continue
		}
		t := train
		if err := repos.Trains.Create(ctx, &t); err != nil {
			return created, fmt.Errorf("failed to create train %s: %w", train.Number, err)
		}
		created++
	}
	return created, nil
}

func departureAt(hour, minute int) time.Time {
	return time.Date(2000, time.January, 1, hour, minute, 0, 0, time.UTC)
}

func sampleTrains() []models.Train {
	allWeek := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

	return []models.Train{
		{
			Number:        "12951",
			Name:          "Mumbai Rajdhani Express",
			From:          models.Station{State: "Maharashtra", District: "Mumbai", Station: "Mumbai Central"},
			To:            models.Station{State: "Delhi", District: "New Delhi", Station: "New Delhi"},
			DepartureTime: departureAt(17, 0),
			ArrivalTime:   departureAt(8, 35),
			Duration:      "15h 35m",
			Distance:      1384,
			Days:          allWeek,
			IsActive:      true,
			Classes: []models.TrainClass{
				{Name: "1AC", Price: 4500, SeatsAvailable: 48},
				{Name: "2AC", Price: 2800, SeatsAvailable: 96},
				{Name: "3AC", Price: 1900, SeatsAvailable: 192},
			},
		},
		{
			Number:        "12627",
			Name:          "Karnataka Express",
			From:          models.Station{State: "Karnataka", District: "Bengaluru", Station: "KSR Bengaluru"},
			To:            models.Station{State: "Delhi", District: "New Delhi", Station: "New Delhi"},
			DepartureTime: departureAt(19, 20),
			ArrivalTime:   departureAt(9, 45),
			Duration:      "38h 25m",
			Distance:      2444,
			Days:          allWeek,
			IsActive:      true,
			Classes: []models.TrainClass{
				{Name: "2AC", Price: 3200, SeatsAvailable: 72},
				{Name: "3AC", Price: 2250, SeatsAvailable: 128},
				{Name: "Sleeper", Price: 850, SeatsAvailable: 360},
			},
		},
		{
			Number:        "12839",
			Name:          "Howrah Mail",
			From:          models.Station{State: "Tamil Nadu", District: "Chennai", Station: "MGR Chennai Central"},
			To:            models.Station{State: "West Bengal", District: "Kolkata", Station: "Howrah Junction"},
			DepartureTime: departureAt(23, 40),
			ArrivalTime:   departureAt(3, 50),
			Duration:      "28h 10m",
			Distance:      1663,
			Days:          []string{"Monday", "Wednesday", "Friday", "Saturday"},
			IsActive:      true,
			Classes: []models.TrainClass{
				{Name: "2AC", Price: 2600, SeatsAvailable: 48},
				{Name: "3AC", Price: 1800, SeatsAvailable: 112},
				{Name: "Sleeper", Price: 650, SeatsAvailable: 420},
				{Name: "General", Price: 320, SeatsAvailable: 200},
			},
		},
		{
			Number:        "16526",
			Name:          "Island Express",
			From:          models.Station{State: "Karnataka", District: "Bengaluru", Station: "KSR Bengaluru"},
			To:            models.Station{State: "Kerala", District: "Thiruvananthapuram", Station: "Kanniyakumari"},
			DepartureTime: departureAt(21, 40),
			ArrivalTime:   departureAt(15, 30),
			Duration:      "17h 50m",
			Distance:      945,
			Days:          allWeek,
			IsActive:      true,
			Classes: []models.TrainClass{
				{Name: "3AC", Price: 1400, SeatsAvailable: 96},
				{Name: "Sleeper", Price: 520, SeatsAvailable: 310},
				{Name: "General", Price: 210, SeatsAvailable: 180},
			},
		},
	}
}
