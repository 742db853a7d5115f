package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/internal/domain/repositories"
	tsclient "github.com/mbengwi/pharmafind/backend/internal/infrastructure/clients/typesense"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

const collectionName = "drug_offers"

// TypesenseAdapter implements offer candidate search using Typesense. Each
// document is one (pharmacy, offer) pair, denormalized so a single query
// returns everything the aggregator needs.
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements OfferSearchRepository
var _ repositories.OfferSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "generic_name", Type: "string"},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "price", Type: "float"},
			{Name: "quantity", Type: "int32"},
			{Name: "requires_prescription", Type: "bool"},
			{Name: "pharmacy_id", Type: "string"},
			{Name: "pharmacy_name", Type: "string"},
			{Name: "pharmacy_status", Type: "string"},
			{Name: "pharmacy_rating", Type: "float"},
			{Name: "pharmacy_review_count", Type: "int32"},
			{Name: "pharmacy_verified", Type: "bool"},
			{Name: "pharmacy_city", Type: "string", Optional: pointer.True()},
			{Name: "location", Type: "geopoint", Optional: pointer.True()},
			{Name: "expiry_date", Type: "int64", Optional: pointer.True()},
			{Name: "quantity_rank", Type: "int32"},
		},
		DefaultSortingField: pointer.String("quantity_rank"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// DropSchema deletes the collection, for full reindexes
func (a *TypesenseAdapter) DropSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete typesense collection: %w", err)
	}
	return nil
}

// Index upserts one offer document, denormalizing pharmacy metadata
func (a *TypesenseAdapter) Index(ctx context.Context, pharmacy *entities.Pharmacy, offer *entities.DrugOffer) error {
	document := map[string]interface{}{
		"id":                    offer.ID,
		"name":                  offer.Name,
		"generic_name":          offer.GenericName,
		"category":              offer.Category,
		"price":                 offer.Price,
		"quantity":              offer.Quantity,
		"requires_prescription": offer.RequiresPrescription,
		"pharmacy_id":           pharmacy.ID,
		"pharmacy_name":         pharmacy.Name,
		"pharmacy_status":       pharmacy.Status,
		"pharmacy_rating":       pharmacy.Rating,
		"pharmacy_review_count": pharmacy.ReviewCount,
		"pharmacy_verified":     pharmacy.IsVerified,
		"pharmacy_city":         pharmacy.Address.City,
		"quantity_rank":         offer.Quantity,
	}
	if pharmacy.HasLocation() {
		document["location"] = []float64{pharmacy.Location.Latitude, pharmacy.Location.Longitude}
	}
	if offer.ExpiryDate != nil {
		document["expiry_date"] = offer.ExpiryDate.Unix()
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index offer: %w", err)
	}

	return nil
}

// Delete removes an offer from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, offerID string) error {
	_, err := a.client.Client().Collection(collectionName).Document(offerID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete offer from index: %w", err)
	}
	return nil
}

// FindMatching searches offer documents by term with filter push-down. The
// aggregator upstream still re-applies filters, so a looser match here only
// costs work, never correctness.
func (a *TypesenseAdapter) FindMatching(ctx context.Context, query repositories.OfferQuery) ([]entities.CandidateOffer, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 200
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(strings.TrimSpace(query.Term)),
		QueryBy:  pointer.String("name,generic_name,category"),
		FilterBy: pointer.String(buildFilterBy(query)),
		SortBy:   pointer.String("_text_match:desc,quantity_rank:desc"),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search offers: %w", err)
	}

	pharmaciesByID := map[string]*entities.Pharmacy{}
	candidates := []entities.CandidateOffer{}

	if result.Hits == nil {
		return candidates, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		offer := entities.DrugOffer{
			ID:          stringField(doc, "id"),
			PharmacyID:  stringField(doc, "pharmacy_id"),
			Name:        stringField(doc, "name"),
			GenericName: stringField(doc, "generic_name"),
			Category:    stringField(doc, "category"),
		}
		if val, ok := doc["price"].(float64); ok {
			offer.Price = val
		}
		if val, ok := doc["quantity"].(float64); ok {
			offer.Quantity = int(val)
		}
		if val, ok := doc["requires_prescription"].(bool); ok {
			offer.RequiresPrescription = val
		}
		if val, ok := doc["expiry_date"].(float64); ok {
			t := time.Unix(int64(val), 0)
			offer.ExpiryDate = &t
		}

		pharmacyID := offer.PharmacyID
		pharmacy, ok := pharmaciesByID[pharmacyID]
		if !ok {
			pharmacy = &entities.Pharmacy{
				ID:     pharmacyID,
				Name:   stringField(doc, "pharmacy_name"),
				Status: stringField(doc, "pharmacy_status"),
			}
			pharmacy.Address.City = stringField(doc, "pharmacy_city")
			if val, ok := doc["pharmacy_rating"].(float64); ok {
				pharmacy.Rating = val
			}
			if val, ok := doc["pharmacy_review_count"].(float64); ok {
				pharmacy.ReviewCount = int(val)
			}
			if val, ok := doc["pharmacy_verified"].(bool); ok {
				pharmacy.IsVerified = val
			}
			if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
				lat, latOK := loc[0].(float64)
				lon, lonOK := loc[1].(float64)
				if latOK && lonOK {
					pharmacy.Location = &geo.Point{Latitude: lat, Longitude: lon}
				}
			}
			pharmaciesByID[pharmacyID] = pharmacy
		}

		candidates = append(candidates, entities.CandidateOffer{Pharmacy: pharmacy, Offer: offer})
	}

	return candidates, nil
}

// buildFilterBy translates an offer query to a Typesense filter_by clause.
// Only approved pharmacies are ever searchable.
func buildFilterBy(query repositories.OfferQuery) string {
	filters := []string{fmt.Sprintf("pharmacy_status:=%s", entities.StatusApproved)}
	if query.Filters.Category != "" {
		filters = append(filters, fmt.Sprintf("category:=%s", query.Filters.Category))
	}
	if query.Filters.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price:<=%f", *query.Filters.MaxPrice))
	}
	if query.Filters.InStockOnly {
		filters = append(filters, "quantity:>0")
	}
	if b := query.Bounds; b != nil {
		radiusKm := geo.Distance(b.Center, geo.Point{Latitude: b.North, Longitude: b.East})
		filters = append(filters, fmt.Sprintf("location:(%f, %f, %f km)",
			b.Center.Latitude, b.Center.Longitude, radiusKm))
	}
	return strings.Join(filters, " && ")
}

func stringField(doc map[string]interface{}, key string) string {
	if val, ok := doc[key].(string); ok {
		return val
	}
	return ""
}
