package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/database"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
)

type TrainRepository struct {
	db *database.DB
}

func NewTrainRepository(db *database.DB) *TrainRepository {
	return &TrainRepository{db: db}
}

const trainColumns = `
	id, number, name,
	from_state, from_district, from_station,
	to_state, to_district, to_station,
	departure_time, arrival_time, duration, distance,
	days, is_active, created_at, updated_at`

func scanTrain(row interface{ Scan(...any) error }) (*models.Train, error) {
	train := &models.Train{}
	err := row.Scan(
		&train.ID,
		&train.Number,
		&train.Name,
		&train.From.State,
		&train.From.District,
		&train.From.Station,
		&train.To.State,
		&train.To.District,
		&train.To.Station,
		&train.DepartureTime,
		&train.ArrivalTime,
		&train.Duration,
		&train.Distance,
		pq.Array(&train.Days),
		&train.IsActive,
		&train.CreatedAt,
		&train.UpdatedAt,
	)
	return train, err
}

func (r *TrainRepository) Create(ctx context.Context, train *models.Train) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO trains (number, name,
			from_state, from_district, from_station,
			to_state, to_district, to_station,
			departure_time, arrival_time, duration, distance, days, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, TRUE)
		RETURNING id, is_active, created_at, updated_at`

	err = tx.QueryRowContext(ctx, query,
		train.Number,
		train.Name,
		train.From.State,
		train.From.District,
		train.From.Station,
		train.To.State,
		train.To.District,
		train.To.Station,
		train.DepartureTime,
		train.ArrivalTime,
		train.Duration,
		train.Distance,
		pq.Array(train.Days),
	).Scan(&train.ID, &train.IsActive, &train.CreatedAt, &train.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range train.Classes {
		cls := &train.Classes[i]
		cls.TrainID = train.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO train_classes (train_id, name, price, seats_available)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			cls.TrainID, cls.Name, cls.Price, cls.SeatsAvailable,
		).Scan(&cls.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *TrainRepository) GetByID(ctx context.Context, id int64) (*models.Train, error) {
	query := `SELECT ` + trainColumns + ` FROM trains WHERE id = $1`

	train, err := scanTrain(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachClasses(ctx, []*models.Train{train}); err != nil {
		return nil, err
	}
	return train, nil
}

func (r *TrainRepository) ListActive(ctx context.Context) ([]models.Train, error) {
	query := `SELECT ` + trainColumns + ` FROM trains WHERE is_active ORDER BY number`
	return r.queryTrains(ctx, query)
}

// SearchFilter narrows the active-train search; zero values are ignored.
type SearchFilter struct {
	FromState    string
	FromDistrict string
	ToState      string
	ToDistrict   string
	Day          string // weekday name, matched against the days array
	IDs          []int64
}

func (r *TrainRepository) Search(ctx context.Context, filter SearchFilter) ([]models.Train, error) {
	query := `SELECT ` + trainColumns + ` FROM trains WHERE is_active`
	var args []interface{}
	argIndex := 1

	add := func(clause string, value interface{}) {
		query += fmt.Sprintf(" AND "+clause, argIndex)
		args = append(args, value)
		argIndex++
	}

	if filter.FromState != "" {
		add("from_state = $%d", filter.FromState)
	}
	if filter.FromDistrict != "" {
		add("from_district = $%d", filter.FromDistrict)
	}
	if filter.ToState != "" {
		add("to_state = $%d", filter.ToState)
	}
	if filter.ToDistrict != "" {
		add("to_district = $%d", filter.ToDistrict)
	}
	if filter.Day != "" {
		add("$%d = ANY(days)", filter.Day)
	}
	if len(filter.IDs) > 0 {
		add("id = ANY($%d)", pq.Array(filter.IDs))
	}

	query += " ORDER BY number"
	return r.queryTrains(ctx, query, args...)
}

func (r *TrainRepository) Update(ctx context.Context, train *models.Train) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE trains
		SET number = $1, name = $2,
		    from_state = $3, from_district = $4, from_station = $5,
		    to_state = $6, to_district = $7, to_station = $8,
		    departure_time = $9, arrival_time = $10, duration = $11,
		    distance = $12, days = $13, is_active = $14, updated_at = NOW()
		WHERE id = $15`

	result, err := tx.ExecContext(ctx, query,
		train.Number,
		train.Name,
		train.From.State,
		train.From.District,
		train.From.Station,
		train.To.State,
		train.To.District,
		train.To.Station,
		train.DepartureTime,
		train.ArrivalTime,
		train.Duration,
		train.Distance,
		pq.Array(train.Days),
		train.IsActive,
		train.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	// Replacing the class rows resets their seat counters to the supplied
	// values. Catalog edits are an administrative operation and do not go
	// through the inventory transaction path.
	if _, err := tx.ExecContext(ctx, `DELETE FROM train_classes WHERE train_id = $1`, train.ID); err != nil {
		return err
	}
	for i := range train.Classes {
		cls := &train.Classes[i]
		cls.TrainID = train.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO train_classes (train_id, name, price, seats_available)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			cls.TrainID, cls.Name, cls.Price, cls.SeatsAvailable,
		).Scan(&cls.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SoftDelete clears the active flag. The row and its class rows survive so
// denormalized booking references stay resolvable.
func (r *TrainRepository) SoftDelete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE trains SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *TrainRepository) queryTrains(ctx context.Context, query string, args ...interface{}) ([]models.Train, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trains []models.Train
	var refs []*models.Train
	for rows.Next() {
		train, err := scanTrain(rows)
		if err != nil {
			return nil, err
		}
		trains = append(trains, *train)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range trains {
		refs = append(refs, &trains[i])
	}
	if err := r.attachClasses(ctx, refs); err != nil {
		return nil, err
	}
	return trains, nil
}

func (r *TrainRepository) attachClasses(ctx context.Context, trains []*models.Train) error {
	if len(trains) == 0 {
		return nil
	}

	ids := make([]int64, len(trains))
	byID := make(map[int64]*models.Train, len(trains))
	for i, t := range trains {
		ids[i] = t.ID
		byID[t.ID] = t
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, train_id, name, price, seats_available
		FROM train_classes
		WHERE train_id = ANY($1)
		ORDER BY train_id, id`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cls models.TrainClass
		if err := rows.Scan(&cls.ID, &cls.TrainID, &cls.Name, &cls.Price, &cls.SeatsAvailable); err != nil {
			return err
		}
		if train, ok := byID[cls.TrainID]; ok {
			train.Classes = append(train.Classes, cls)
		}
	}
	return rows.Err()
}
