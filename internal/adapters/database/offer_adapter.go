package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/internal/domain/repositories"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/mbengwi/pharmafind/backend/pkg/errors"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

const defaultCandidateLimit = 200

// OfferAdapter implements OfferRepository on Postgres. It is the fallback
// candidate supplier when the search engine is unavailable.
type OfferAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewOfferAdapter creates a new drug offer adapter
func NewOfferAdapter(client *postgres.Client) repositories.OfferRepository {
	return &OfferAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// FindMatching returns (pharmacy, offer) rows whose drug name, generic name
// or category contains the term, joined against approved pharmacies only.
// The rectangle in query.Bounds trims candidates before the exact distance
// check upstream.
func (a *OfferAdapter) FindMatching(ctx context.Context, query repositories.OfferQuery) ([]entities.CandidateOffer, error) {
	pattern := "%" + strings.TrimSpace(query.Term) + "%"

	ds := a.db.Select(
		goqu.I("d.id"), goqu.I("d.pharmacy_id"), goqu.I("d.name"),
		goqu.I("d.generic_name"), goqu.I("d.category"), goqu.I("d.dosage_form"),
		goqu.I("d.strength"), goqu.I("d.price"), goqu.I("d.quantity"),
		goqu.I("d.expiry_date"), goqu.I("d.requires_prescription"),
		goqu.I("p.id"), goqu.I("p.name"), goqu.I("p.street"), goqu.I("p.city"),
		goqu.I("p.region"), goqu.I("p.country"), goqu.I("p.latitude"),
		goqu.I("p.longitude"), goqu.I("p.phone_number"), goqu.I("p.email"),
		goqu.I("p.rating"), goqu.I("p.review_count"), goqu.I("p.status"),
		goqu.I("p.is_verified"), goqu.I("p.created_at"), goqu.I("p.updated_at"),
	).
		From(goqu.T("drugs").As("d")).
		Join(goqu.T("pharmacies").As("p"), goqu.On(goqu.I("d.pharmacy_id").Eq(goqu.I("p.id")))).
		Where(goqu.Ex{"p.status": entities.StatusApproved}).
		Where(goqu.Or(
			goqu.I("d.name").ILike(pattern),
			goqu.I("d.generic_name").ILike(pattern),
			goqu.I("d.category").ILike(pattern),
		))

	if query.Filters.Category != "" {
		ds = ds.Where(goqu.I("d.category").ILike(query.Filters.Category))
	}
	if query.Filters.MaxPrice != nil {
		ds = ds.Where(goqu.I("d.price").Lte(*query.Filters.MaxPrice))
	}
	if query.Filters.InStockOnly {
		ds = ds.Where(goqu.I("d.quantity").Gt(0))
	}
	if query.Bounds != nil {
		ds = ds.Where(goqu.And(
			goqu.I("p.latitude").Gte(query.Bounds.South),
			goqu.I("p.latitude").Lte(query.Bounds.North),
			goqu.I("p.longitude").Gte(query.Bounds.West),
			goqu.I("p.longitude").Lte(query.Bounds.East),
		))
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultCandidateLimit
	}
	ds = ds.Order(goqu.I("d.quantity").Desc(), goqu.I("d.price").Asc()).
		Limit(uint(limit))

	sqlQuery, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build candidate query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to find matching offers", err)
	}
	defer rows.Close()

	// Pharmacy rows repeat across offers; share one entity per pharmacy id so
	// grouping upstream compares pointers cheaply.
	pharmaciesByID := map[string]*entities.Pharmacy{}
	candidates := []entities.CandidateOffer{}

	for rows.Next() {
		offer, pharmacy, err := scanCandidateRow(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan offer row", err)
		}
		if existing, ok := pharmaciesByID[pharmacy.ID]; ok {
			pharmacy = existing
		} else {
			pharmaciesByID[pharmacy.ID] = pharmacy
		}
		candidates = append(candidates, entities.CandidateOffer{Pharmacy: pharmacy, Offer: offer})
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating offer rows", err)
	}

	return candidates, nil
}

// ListByPharmacy returns all offers held by one pharmacy
func (a *OfferAdapter) ListByPharmacy(ctx context.Context, pharmacyID string) ([]entities.DrugOffer, error) {
	sqlQuery, args, err := a.db.Select(
		"id", "pharmacy_id", "name", "generic_name", "category",
		"dosage_form", "strength", "price", "quantity",
		"expiry_date", "requires_prescription",
	).
		From("drugs").
		Where(goqu.Ex{"pharmacy_id": pharmacyID}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list offers", err)
	}
	defer rows.Close()

	offers := []entities.DrugOffer{}
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan offer", err)
		}
		offers = append(offers, offer)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating offers", err)
	}

	return offers, nil
}

func scanOffer(row rowScanner) (entities.DrugOffer, error) {
	var offer entities.DrugOffer
	var dosageForm, strength sql.NullString
	var expiry sql.NullTime

	err := row.Scan(
		&offer.ID,
		&offer.PharmacyID,
		&offer.Name,
		&offer.GenericName,
		&offer.Category,
		&dosageForm,
		&strength,
		&offer.Price,
		&offer.Quantity,
		&expiry,
		&offer.RequiresPrescription,
	)
	if err != nil {
		return entities.DrugOffer{}, err
	}

	offer.DosageForm = dosageForm.String
	offer.Strength = strength.String
	if expiry.Valid {
		t := expiry.Time
		offer.ExpiryDate = &t
	}

	return offer, nil
}

func scanCandidateRow(row rowScanner) (entities.DrugOffer, *entities.Pharmacy, error) {
	var offer entities.DrugOffer
	var dosageForm, strength sql.NullString
	var expiry sql.NullTime

	pharmacy := &entities.Pharmacy{}
	var lat, lon sql.NullFloat64

	err := row.Scan(
		&offer.ID,
		&offer.PharmacyID,
		&offer.Name,
		&offer.GenericName,
		&offer.Category,
		&dosageForm,
		&strength,
		&offer.Price,
		&offer.Quantity,
		&expiry,
		&offer.RequiresPrescription,
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
		return entities.DrugOffer{}, nil, err
	}

	offer.DosageForm = dosageForm.String
	offer.Strength = strength.String
	if expiry.Valid {
		t := expiry.Time
		offer.ExpiryDate = &t
	}
	if lat.Valid && lon.Valid {
		pharmacy.Location = &geo.Point{Latitude: lat.Float64, Longitude: lon.Float64}
	}

	return offer, pharmacy, nil
}
