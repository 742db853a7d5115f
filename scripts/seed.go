package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/mbengwi/pharmafind/backend/internal/adapters/search"
	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/clients/postgres"
	"github.com/mbengwi/pharmafind/backend/internal/infrastructure/clients/typesense"
	"github.com/mbengwi/pharmafind/backend/pkg/config"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

type seedPharmacy struct {
	pharmacy entities.Pharmacy
	offers   []entities.DrugOffer
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	var searchRepo *search.TypesenseAdapter
	if tsClient, err := typesense.NewClient(&cfg.Typesense); err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(ctx); err != nil {
			log.Printf("Warning: failed to init search schema: %v", err)
			searchRepo = nil
		}
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				search_analytics,
				ratings,
				drugs,
				pharmacies
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	db := goqu.New("postgres", pgClient.DB())
	now := time.Now()

	seeds := []seedPharmacy{
		{
			pharmacy: entities.Pharmacy{
				ID:   uuid.New().String(),
				Name: "City Chemist",
				Address: entities.Address{
					Street: "Commercial Avenue", City: "Bamenda",
					Region: "Northwest", Country: "Cameroon",
				},
				Location:    &geo.Point{Latitude: 5.9597, Longitude: 10.1460},
				PhoneNumber: "+237 670 000 001",
				Email:       "citychemist@example.com",
				Rating:      4.5, ReviewCount: 32,
				Status: entities.StatusApproved, IsVerified: true,
			},
			offers: []entities.DrugOffer{
				{Name: "Paracetamol", GenericName: "Acetaminophen", Category: "Pain Relievers", DosageForm: "Tablet", Strength: "500mg", Price: 500, Quantity: 120},
				{Name: "Amoxicillin", GenericName: "Amoxicillin", Category: "Antibiotics", DosageForm: "Capsule", Strength: "250mg", Price: 1500, Quantity: 45, RequiresPrescription: true},
				{Name: "Vitamin C", GenericName: "Ascorbic Acid", Category: "Vitamins", DosageForm: "Tablet", Strength: "1000mg", Price: 800, Quantity: 15},
			},
		},
		{
			pharmacy: entities.Pharmacy{
				ID:   uuid.New().String(),
				Name: "Up Station Pharmacy",
				Address: entities.Address{
					Street: "Up Station Hill", City: "Bamenda",
					Region: "Northwest", Country: "Cameroon",
				},
				Location:    &geo.Point{Latitude: 5.9480, Longitude: 10.1580},
				PhoneNumber: "+237 670 000 002",
				Email:       "upstation@example.com",
				Rating:      4.1, ReviewCount: 18,
				Status: entities.StatusApproved, IsVerified: true,
			},
			offers: []entities.DrugOffer{
				{Name: "Paracetamol", GenericName: "Acetaminophen", Category: "Pain Relievers", DosageForm: "Syrup", Strength: "120mg/5ml", Price: 450, Quantity: 60},
				{Name: "Ibuprofen", GenericName: "Ibuprofen", Category: "Pain Relievers", DosageForm: "Tablet", Strength: "400mg", Price: 700, Quantity: 0},
			},
		},
		{
			pharmacy: entities.Pharmacy{
				ID:   uuid.New().String(),
				Name: "Nkwen Health Point",
				Address: entities.Address{
					Street: "Sonac Street", City: "Bamenda",
					Region: "Northwest", Country: "Cameroon",
				},
				Location:    &geo.Point{Latitude: 5.9750, Longitude: 10.1700},
				PhoneNumber: "+237 670 000 003",
				Email:       "nkwenhealth@example.com",
				Rating:      3.8, ReviewCount: 9,
				Status: entities.StatusApproved, IsVerified: false,
			},
			offers: []entities.DrugOffer{
				{Name: "Amoxicillin", GenericName: "Amoxicillin", Category: "Antibiotics", DosageForm: "Suspension", Strength: "125mg/5ml", Price: 1200, Quantity: 30, RequiresPrescription: true},
				{Name: "Chloroquine", GenericName: "Chloroquine Phosphate", Category: "Antimalarials", DosageForm: "Tablet", Strength: "250mg", Price: 900, Quantity: 80},
			},
		},
		{
			pharmacy: entities.Pharmacy{
				ID:   uuid.New().String(),
				Name: "Pending Pharmacy",
				Address: entities.Address{
					City: "Bamenda", Region: "Northwest", Country: "Cameroon",
				},
				Location:    &geo.Point{Latitude: 5.9600, Longitude: 10.1500},
				PhoneNumber: "+237 670 000 004",
				Email:       "pending@example.com",
				Status:      "pending",
			},
			offers: []entities.DrugOffer{
				{Name: "Paracetamol", GenericName: "Acetaminophen", Category: "Pain Relievers", Price: 400, Quantity: 200},
			},
		},
	}

	for _, seed := range seeds {
		p := seed.pharmacy
		record := goqu.Record{
			"id":           p.ID,
			"name":         p.Name,
			"street":       p.Address.Street,
			"city":         p.Address.City,
			"region":       p.Address.Region,
			"country":      p.Address.Country,
			"phone_number": p.PhoneNumber,
			"email":        p.Email,
			"rating":       p.Rating,
			"review_count": p.ReviewCount,
			"status":       p.Status,
			"is_verified":  p.IsVerified,
			"created_at":   now,
			"updated_at":   now,
		}
		if p.Location != nil {
			record["latitude"] = p.Location.Latitude
			record["longitude"] = p.Location.Longitude
		}

		query, args, err := db.Insert("pharmacies").Rows(record).ToSQL()
		if err != nil {
			log.Fatalf("Failed to build pharmacy insert: %v", err)
		}
		if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
			log.Fatalf("Failed to seed pharmacy %s: %v", p.Name, err)
		}

		for i := range seed.offers {
			offer := seed.offers[i]
			offer.ID = uuid.New().String()
			offer.PharmacyID = p.ID
			expiry := now.AddDate(0, 6, 0)
			offer.ExpiryDate = &expiry

			query, args, err := db.Insert("drugs").Rows(goqu.Record{
				"id":                    offer.ID,
				"pharmacy_id":           offer.PharmacyID,
				"name":                  offer.Name,
				"generic_name":          offer.GenericName,
				"category":              offer.Category,
				"dosage_form":           offer.DosageForm,
				"strength":              offer.Strength,
				"price":                 offer.Price,
				"quantity":              offer.Quantity,
				"expiry_date":           offer.ExpiryDate,
				"requires_prescription": offer.RequiresPrescription,
			}).ToSQL()
			if err != nil {
				log.Fatalf("Failed to build drug insert: %v", err)
			}
			if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
				log.Fatalf("Failed to seed drug %s: %v", offer.Name, err)
			}

			if searchRepo != nil && p.Status == entities.StatusApproved {
				if err := searchRepo.Index(ctx, &p, &offer); err != nil {
					log.Printf("Warning: failed to index %s: %v", offer.Name, err)
				}
			}
		}

		log.Printf("Seeded %s with %d offers", p.Name, len(seed.offers))
	}

	log.Println("Seeding complete.")
}
