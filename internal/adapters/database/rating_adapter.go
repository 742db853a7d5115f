package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/internal/domain/repositories"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/mbengwi/pharmafind/backend/pkg/errors"
)

// RatingAdapter implements RatingRepository on Postgres
type RatingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRatingAdapter creates a new rating adapter
func NewRatingAdapter(client *postgres.Client) repositories.RatingRepository {
	return &RatingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new pharmacy rating
func (a *RatingAdapter) Create(ctx context.Context, rating *entities.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now()
	}

	query, args, err := a.db.Insert("ratings").Rows(goqu.Record{
		"id":          rating.ID,
		"pharmacy_id": rating.PharmacyID,
		"client_id":   rating.ClientID,
		"score":       rating.Score,
		"comment":     sql.NullString{String: rating.Comment, Valid: rating.Comment != ""},
		"created_at":  rating.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create rating", err)
	}

	return nil
}

// ListByPharmacy returns the most recent ratings for a pharmacy
func (a *RatingAdapter) ListByPharmacy(ctx context.Context, pharmacyID string, limit int) ([]*entities.Rating, error) {
	ds := a.db.Select("id", "pharmacy_id", "client_id", "score", "comment", "created_at").
		From("ratings").
		Where(goqu.Ex{"pharmacy_id": pharmacyID}).
		Order(goqu.I("created_at").Desc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list ratings", err)
	}
	defer rows.Close()

	ratings := []*entities.Rating{}
	for rows.Next() {
		rating := &entities.Rating{}
		var comment sql.NullString

		err := rows.Scan(
			&rating.ID,
			&rating.PharmacyID,
			&rating.ClientID,
			&rating.Score,
			&comment,
			&rating.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan rating", err)
		}

		rating.Comment = comment.String
		ratings = append(ratings, rating)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating ratings", err)
	}

	return ratings, nil
}

// AverageForPharmacy computes the rating aggregate used to refresh the
// denormalized pharmacy rating
func (a *RatingAdapter) AverageForPharmacy(ctx context.Context, pharmacyID string) (float64, int, error) {
	query, args, err := a.db.Select(
		goqu.COALESCE(goqu.AVG("score"), 0).As("avg_score"),
		goqu.COUNT("id").As("review_count"),
	).
		From("ratings").
		Where(goqu.Ex{"pharmacy_id": pharmacyID}).
		ToSQL()
	if err != nil {
		return 0, 0, apperrors.NewInternalError("failed to build query", err)
	}

	var avg float64
	var count int
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&avg, &count)
	if err != nil {
		return 0, 0, apperrors.NewInternalError("failed to aggregate ratings", err)
	}

	return avg, count, nil
}
