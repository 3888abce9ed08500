package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/apperr"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/logger"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/messaging"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/repository"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/search"
)

// TrainService owns the catalog: admin CRUD, listing and search. The search
// client is optional; without it free-text queries degrade to SQL filters.
type TrainService struct {
	trains     *repository.TrainRepository
	searchIdx  *search.Client
	natsClient *messaging.NATSClient
}

func NewTrainService(trains *repository.TrainRepository, searchIdx *search.Client, natsClient *messaging.NATSClient) *TrainService {
	return &TrainService{
		trains:     trains,
		searchIdx:  searchIdx,
		natsClient: natsClient,
	}
}

func validateClasses(classes []models.ClassInput) error {
	if len(classes) == 0 {
		return apperr.E(apperr.InvalidArgument, "at least one class is required")
	}
	seen := make(map[string]bool, len(classes))
	for _, cls := range classes {
		if !models.IsValidClassName(cls.Name) {
			return apperr.Errorf(apperr.InvalidArgument, "unknown class %q", cls.Name)
		}
		if seen[cls.Name] {
			return apperr.Errorf(apperr.InvalidArgument, "duplicate class %q", cls.Name)
		}
		seen[cls.Name] = true
		if cls.Price <= 0 {
			return apperr.Errorf(apperr.InvalidArgument, "price for class %q must be positive", cls.Name)
		}
		if cls.SeatsAvailable < 0 {
			return apperr.Errorf(apperr.InvalidArgument, "seats for class %q cannot be negative", cls.Name)
		}
	}
	return nil
}

func validateDays(days []string) error {
	if len(days) == 0 {
		return apperr.E(apperr.InvalidArgument, "at least one running day is required")
	}
	for _, day := range days {
		if !models.IsValidWeekday(day) {
			return apperr.Errorf(apperr.InvalidArgument, "unknown weekday %q", day)
		}
	}
	return nil
}

func classesFromInput(inputs []models.ClassInput) []models.TrainClass {
	classes := make([]models.TrainClass, len(inputs))
	for i, in := range inputs {
		classes[i] = models.TrainClass{
			Name:           in.Name,
			Price:          in.Price,
			SeatsAvailable: in.SeatsAvailable,
		}
	}
	return classes
}

func (s *TrainService) Create(ctx context.Context, req *models.CreateTrainRequest) (*models.Train, error) {
	if err := validateClasses(req.Classes); err != nil {
		return nil, err
	}
	if err := validateDays(req.Days); err != nil {
		return nil, err
	}

	train := &models.Train{
		Number:        req.Number,
		Name:          req.Name,
		From:          req.From,
		To:            req.To,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Duration:      req.Duration,
		Distance:      req.Distance,
		Classes:       classesFromInput(req.Classes),
		Days:          req.Days,
	}

	if err := s.trains.Create(ctx, train); err != nil {
		return nil, storageErr("failed to create train", err)
	}

	s.index(ctx, train)
	return train, nil
}

func (s *TrainService) GetByID(ctx context.Context, id int64) (*models.Train, error) {
	train, err := s.trains.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("failed to get train", err)
	}
	if train == nil {
		return nil, apperr.E(apperr.NotFound, "train not found")
	}
	return train, nil
}

func (s *TrainService) ListActive(ctx context.Context) ([]models.Train, error) {
	trains, err := s.trains.ListActive(ctx)
	if err != nil {
		return nil, storageErr("failed to list trains", err)
	}
	return trains, nil
}

// Search filters active trains by route and journey date; a free-text query
// goes through the search index when available.
func (s *TrainService) Search(ctx context.Context, req *models.SearchTrainsRequest) ([]models.Train, error) {
	filter := repository.SearchFilter{
		FromState:    req.FromState,
		FromDistrict: req.FromDistrict,
		ToState:      req.ToState,
		ToDistrict:   req.ToDistrict,
	}

	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, apperr.E(apperr.InvalidArgument, "date must be YYYY-MM-DD")
		}
		filter.Day = date.Weekday().String()
	}

	if req.Query != "" && s.searchIdx != nil {
		ids, err := s.searchIdx.SearchIDs(ctx, req.Query, 50)
		if err != nil {
			// The SQL filters still apply; only the text narrowing is lost.
			logger.WithContext(ctx).Warn("search index query failed, falling back to SQL",
				"error", err)
		} else {
			if len(ids) == 0 {
				return []models.Train{}, nil
			}
			filter.IDs = ids
		}
	}

	trains, err := s.trains.Search(ctx, filter)
	if err != nil {
		return nil, storageErr("failed to search trains", err)
	}
	return trains, nil
}

func (s *TrainService) Update(ctx context.Context, id int64, req *models.UpdateTrainRequest) (*models.Train, error) {
	train, err := s.trains.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("failed to get train", err)
	}
	if train == nil {
		return nil, apperr.E(apperr.NotFound, "train not found")
	}

	if req.Name != nil {
		train.Name = *req.Name
	}
	if req.Number != nil {
		train.Number = *req.Number
	}
	if req.From != nil {
		train.From = *req.From
	}
	if req.To != nil {
		train.To = *req.To
	}
	if req.DepartureTime != nil {
		train.DepartureTime = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		train.ArrivalTime = *req.ArrivalTime
	}
	if req.Duration != nil {
		train.Duration = *req.Duration
	}
	if req.Distance != nil {
		train.Distance = *req.Distance
	}
	if req.Classes != nil {
		if err := validateClasses(req.Classes); err != nil {
			return nil, err
		}
		train.Classes = classesFromInput(req.Classes)
	}
	if req.Days != nil {
		if err := validateDays(req.Days); err != nil {
			return nil, err
		}
		train.Days = req.Days
	}
	if req.IsActive != nil {
		train.IsActive = *req.IsActive
	}

	if err := s.trains.Update(ctx, train); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "train not found")
		}
		return nil, storageErr("failed to update train", err)
	}

	s.index(ctx, train)
	return train, nil
}

// Retire soft-deletes a train. Bookings keep their denormalized snapshot,
// so the record stays resolvable for display.
func (s *TrainService) Retire(ctx context.Context, id int64) error {
	train, err := s.trains.GetByID(ctx, id)
	if err != nil {
		return storageErr("failed to get train", err)
	}
	if train == nil {
		return apperr.E(apperr.NotFound, "train not found")
	}

	if err := s.trains.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.E(apperr.NotFound, "train not found")
		}
		return storageErr("failed to retire train", err)
	}

	train.IsActive = false
	s.index(ctx, train)

	if s.natsClient != nil {
		event := models.TrainRetiredEvent{
			TrainID:     train.ID,
			TrainNumber: train.Number,
			Timestamp:   time.Now(),
		}
		if err := s.natsClient.Publish(models.EventTrainRetired, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish event",
				"error", err,
				"subject", models.EventTrainRetired)
		}
	}
	return nil
}

func (s *TrainService) index(ctx context.Context, train *models.Train) {
	if s.searchIdx == nil {
		return
	}
	if err := s.searchIdx.IndexTrain(ctx, train); err != nil {
		// The catalog write already committed; stale index entries are
		// tolerated until the next successful write.
		logger.WithContext(ctx).Error("Failed to index train",
			"error", err,
			"train_id", train.ID)
	}
}
