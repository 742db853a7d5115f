package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/internal/domain/repositories"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/mbengwi/pharmafind/backend/pkg/errors"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

var pharmacyColumns = []interface{}{
	"id", "name", "street", "city", "region", "country",
	"latitude", "longitude", "phone_number", "email",
	"rating", "review_count", "status", "is_verified",
	"created_at", "updated_at",
}

// PharmacyAdapter implements PharmacyRepository on Postgres
type PharmacyAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPharmacyAdapter creates a new pharmacy adapter
func NewPharmacyAdapter(client *postgres.Client) repositories.PharmacyRepository {
	return &PharmacyAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a pharmacy by ID
func (a *PharmacyAdapter) GetByID(ctx context.Context, id string) (*entities.Pharmacy, error) {
	query, args, err := a.db.Select(pharmacyColumns...).
		From("pharmacies").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	pharmacy, err := scanPharmacy(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("pharmacy with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get pharmacy", err)
	}

	return pharmacy, nil
}

// ListApproved retrieves approved pharmacies, optionally restricted to a
// coordinate rectangle. Unlocated pharmacies are excluded when bounds apply.
func (a *PharmacyAdapter) ListApproved(ctx context.Context, filter repositories.PharmacyFilter) ([]*entities.Pharmacy, error) {
	ds := a.db.Select(pharmacyColumns...).
		From("pharmacies").
		Where(goqu.Ex{"status": entities.StatusApproved})

	if filter.Bounds != nil {
		ds = ds.Where(boundsExpression(filter.Bounds))
	}

	ds = ds.Order(goqu.I("rating").Desc(), goqu.I("name").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list pharmacies", err)
	}
	defer rows.Close()

	pharmacies := []*entities.Pharmacy{}
	for rows.Next() {
		pharmacy, err := scanPharmacy(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan pharmacy", err)
		}
		pharmacies = append(pharmacies, pharmacy)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating pharmacies", err)
	}

	return pharmacies, nil
}

// UpdateRating writes the denormalized rating aggregate back onto the pharmacy
func (a *PharmacyAdapter) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	query, args, err := a.db.Update("pharmacies").
		Set(goqu.Record{
			"rating":       rating,
			"review_count": reviewCount,
			"updated_at":   time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update pharmacy rating", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("pharmacy with id %s not found", id))
	}

	return nil
}

// boundsExpression builds the coarse rectangle pre-filter. Exact radius
// checks belong to the application layer; this only trims the candidate set.
func boundsExpression(b *geo.Bounds) goqu.Expression {
	return goqu.And(
		goqu.I("latitude").Gte(b.South),
		goqu.I("latitude").Lte(b.North),
		goqu.I("longitude").Gte(b.West),
		goqu.I("longitude").Lte(b.East),
	)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPharmacy(row rowScanner) (*entities.Pharmacy, error) {
	pharmacy := &entities.Pharmacy{}
	var lat, lon sql.NullFloat64

	err := row.Scan(
		&pharmacy.ID,
		&pharmacy.Name,
		&pharmacy.Address.Street,
		&pharmacy.Address.City,
		&pharmacy.Address.Region,
		&pharmacy.Address.Country,
		&lat,
		&lon,
		&pharmacy.PhoneNumber,
		&pharmacy.Email,
		&pharmacy.Rating,
		&pharmacy.ReviewCount,
		&pharmacy.Status,
		&pharmacy.IsVerified,
		&pharmacy.CreatedAt,
		&pharmacy.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		pharmacy.Location = &geo.Point{Latitude: lat.Float64, Longitude: lon.Float64}
	}

	return pharmacy, nil
}
