package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetops_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Trip represents the trip database model.
type Trip struct {
	ID              uuid.UUID `db:"id"`
	VehicleID       string    `db:"vehicle_id"`
	DriverName      string    `db:"driver_name"`
	OriginName      string    `db:"origin_name"`
	OriginLat       float64   `db:"origin_lat"`
	OriginLon       float64   `db:"origin_lon"`
	DestinationName string    `db:"destination_name"`
	DestinationLat  float64   `db:"destination_lat"`
	DestinationLon  float64   `db:"destination_lon"`
	DistanceKm      float64   `db:"distance_km"`
	DurationMin     int       `db:"duration_min"`
	FuelCost        float64   `db:"fuel_cost"`
	Status          string    `db:"status"`
	Notes           string    `db:"notes"`
	DispatchedAt    time.Time `db:"dispatched_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

const tripNotFoundMsg = "trip not found"

const tripColumns = `id, vehicle_id, driver_name, origin_name, origin_lat, origin_lon,
	destination_name, destination_lat, destination_lon, distance_km, duration_min,
	fuel_cost, status, notes, dispatched_at, updated_at`

// ListFilter narrows a trip listing.
type ListFilter struct {
	VehicleID *string
	Status    *string
	Limit     int
}

// Repository provides database operations for trips.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new trips repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new trip.
func (r *Repository) Create(ctx context.Context, trip *Trip) error {
	query := `
		INSERT INTO trips (
			id, vehicle_id, driver_name, origin_name, origin_lat, origin_lon,
			destination_name, destination_lat, destination_lon, distance_km,
			duration_min, fuel_cost, status, notes, dispatched_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)`

	_, err := r.pool.Exec(ctx, query,
		trip.ID, trip.VehicleID, trip.DriverName, trip.OriginName, trip.OriginLat,
		trip.OriginLon, trip.DestinationName, trip.DestinationLat, trip.DestinationLon,
		trip.DistanceKm, trip.DurationMin, trip.FuelCost, trip.Status, trip.Notes,
		trip.DispatchedAt, trip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	return nil
}

// GetByID retrieves a trip by its ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips WHERE id = $1`, tripColumns)

	var trip Trip
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&trip.ID, &trip.VehicleID, &trip.DriverName, &trip.OriginName, &trip.OriginLat,
		&trip.OriginLon, &trip.DestinationName, &trip.DestinationLat, &trip.DestinationLon,
		&trip.DistanceKm, &trip.DurationMin, &trip.FuelCost, &trip.Status, &trip.Notes,
		&trip.DispatchedAt, &trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(tripNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return &trip, nil
}

// List returns trips newest first, optionally filtered by vehicle and status.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips`, tripColumns)
	args := []interface{}{}
	argPos := 1

	where := ""
	if filter.VehicleID != nil {
		where = fmt.Sprintf(" WHERE vehicle_id = $%d", argPos)
		args = append(args, *filter.VehicleID)
		argPos++
	}
	if filter.Status != nil {
		if where == "" {
			where = fmt.Sprintf(" WHERE status = $%d", argPos)
		} else {
			where += fmt.Sprintf(" AND status = $%d", argPos)
		}
		args = append(args, *filter.Status)
		argPos++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += where + fmt.Sprintf(" ORDER BY dispatched_at DESC LIMIT $%d", argPos)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := []Trip{}
	for rows.Next() {
		var trip Trip
		if err := rows.Scan(
			&trip.ID, &trip.VehicleID, &trip.DriverName, &trip.OriginName, &trip.OriginLat,
			&trip.OriginLon, &trip.DestinationName, &trip.DestinationLat, &trip.DestinationLon,
			&trip.DistanceKm, &trip.DurationMin, &trip.FuelCost, &trip.Status, &trip.Notes,
			&trip.DispatchedAt, &trip.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trips: %w", err)
	}

	return trips, nil
}

// UpdateStatus transitions a trip's lifecycle state.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE trips SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update trip status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(tripNotFoundMsg)
	}

	return nil
}
