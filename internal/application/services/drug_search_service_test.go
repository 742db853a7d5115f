package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
	"github.com/mbengwi/pharmafind/backend/internal/domain/repositories"
	apperrors "github.com/mbengwi/pharmafind/backend/pkg/errors"
	"github.com/mbengwi/pharmafind/backend/pkg/geo"
)

type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) FindMatching(ctx context.Context, query repositories.OfferQuery) ([]entities.CandidateOffer, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.CandidateOffer), args.Error(1)
}

func (m *MockOfferRepository) ListByPharmacy(ctx context.Context, pharmacyID string) ([]entities.DrugOffer, error) {
	args := m.Called(ctx, pharmacyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.DrugOffer), args.Error(1)
}

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAnalyticsRepository) ZeroResultTerms(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SearchEvent), args.Error(1)
}

func candidate(pharmacy *entities.Pharmacy, offer entities.DrugOffer) entities.CandidateOffer {
	offer.PharmacyID = pharmacy.ID
	return entities.CandidateOffer{Pharmacy: pharmacy, Offer: offer}
}

func paracetamol(price float64, quantity int) entities.DrugOffer {
	return entities.DrugOffer{
		Name:        "Paracetamol",
		GenericName: "Acetaminophen",
		Category:    "Pain Relievers",
		Price:       price,
		Quantity:    quantity,
	}
}

func TestSearch_RejectsBlankTerm(t *testing.T) {
	svc := NewDrugSearchService(new(MockOfferRepository), nil, nil, 10)

	for _, term := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), entities.SearchQuery{Term: term})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), "term %q", term)
	}
}

func TestSearch_GroupsOffersByPharmacy(t *testing.T) {
	repo := new(MockOfferRepository)
	svc := NewDrugSearchService(repo, nil, nil, 10)

	p1 := pharmacyAt("p1", 5.9612, 10.1485)
	p2 := pharmacyAt("p2", 5.9650, 10.1500)

	repo.On("FindMatching", mock.Anything, mock.Anything).Return([]entities.CandidateOffer{
		candidate(p1, paracetamol(200, 30)),
		candidate(p2, paracetamol(150, 10)),
		candidate(p1, entities.DrugOffer{Name: "Paracetamol Extra", GenericName: "Acetaminophen", Category: "Pain Relievers", Price: 350, Quantity: 8}),
	}, nil)

	groups, err := svc.Search(context.Background(), entities.SearchQuery{Term: "paracetamol"})
	require.NoError(t, err)

	require.Len(t, groups, 2)

	total := 0
	for _, g := range groups {
		total += len(g.Offers)
		for _, offer := range g.Offers {
			assert.Equal(t, g.Pharmacy.ID, offer.PharmacyID, "no offer crosses groups")
		}
	}
	assert.Equal(t, 3, total, "every surviving offer lands in exactly one group")
}

func TestSearch_InStockOnlyCascade(t *testing.T) {
	repo := new(MockOfferRepository)
	svc := NewDrugSearchService(repo, nil, nil, 10)

	inStock := pharmacyAt("p1", 5.9612, 10.1485)
	outOfStock := pharmacyAt("p2", 5.9650, 10.1500)

	repo.On("FindMatching", mock.Anything, mock.Anything).Return([]entities.CandidateOffer{
		candidate(inStock, paracetamol(200, 30)),
		candidate(outOfStock, paracetamol(150, 0)),
	}, nil)

	groups, err := svc.Search(context.Background(), entities.SearchQuery{
		Term:    "Paracetamol",
		Filters: entities.SearchFilters{InStockOnly: true},
	})
	require.NoError(t, err)

	// The out-of-stock pharmacy loses its only offer and its whole group.
	require.Len(t, groups, 1)
	assert.Equal(t, "p1", groups[0].Pharmacy.ID)
}

func TestSearch_MaxPriceCascade(t *testing.T) {
	repo := new(MockOfferRepository)
	svc := NewDrugSearchService(repo, nil, nil, 10)

	cheap := pharmacyAt("cheap", 5.9612, 10.1485)
	pricey := pharmacyAt("pricey", 5.9650, 10.1500)

	repo.On("FindMatching", mock.Anything, mock.Anything).Return([]entities.CandidateOffer{
		candidate(cheap, paracetamol(180, 30)),
		candidate(pricey, paracetamol(900, 30)),
	}, nil)

	maxPrice := 200.0
	groups, err := svc.Search(context.Background(), entities.SearchQuery{
		Term:    "paracetamol",
		Filters: entities.SearchFilters{MaxPrice: &maxPrice},
	})
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, "cheap", groups[0].Pharmacy.ID)
}

func TestSearch_GeoFilterDropsFarAndUnlocatedPharmacies(t *testing.T) {
	repo := new(MockOfferRepository)
	svc := NewDrugSearchService(repo, nil, nil, 10)

	near := pharmacyAt("near", 5.9612, 10.1485)
	far := pharmacyAt("far", 7.5, 12.0)
	unlocated := &entities.Pharmacy{ID: "unlocated", Status: entities.StatusApproved}

	repo.On("FindMatching", mock.Anything, mock.Anything).Return([]entities.CandidateOffer{
		candidate(near, paracetamol(200, 30)),
		candidate(far, paracetamol(100, 30)),
		candidate(unlocated, paracetamol(120, 30)),
	}, nil)

	center := geo.Point{Latitude: 5.9597, Longitude: 10.1460}
	groups, err := svc.Search(context.Background(), entities.SearchQuery{Term: "paracetamol", Center: &center})
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, "near", groups[0].Pharmacy.ID)
	require.NotNil(t, groups[0].DistanceKm)
	assert.InDelta(t, 0.27, *groups[0].DistanceKm, 0.05)
}

func TestSearch_NoCenterLeavesDistanceUnset(t *testing.T) {
	repo := new(MockOfferRepository)
	svc := NewDrugSearchService(repo, nil, nil, 10)

	p := pharmacyAt("p1", 5.9612, 10.1485)
	repo.On("FindMatching", mock.Anything, mock.Anything).Return([]entities.CandidateOffer{
		candidate(p, paracetamol(200, 30)),
	}, nil)

	groups, err := svc.Search(context.Background(), entities.SearchQuery{Term: "paracetamol"})
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Nil(t, groups[0].DistanceKm)
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	repo := new(MockOfferRepository)
	svc := NewDrugSearchService(repo, nil, nil, 10)

	repo.On("FindMatching", mock.Anything, mock.Anything).Return([]entities.CandidateOffer{}, nil)

	groups, err := svc.Search(context.Background(), entities.SearchQuery{Term: "unobtainium"})
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestSearch_SkipsUnapprovedPharmacies(t *testing.T) {
	repo := new(MockOfferRepository)
	svc := NewDrugSearchService(repo, nil, nil, 10)

	pending := pharmacyAt("pending", 5.9612, 10.1485)
	pending.Status = "pending"

	repo.On("FindMatching", mock.Anything, mock.Anything).Return([]entities.CandidateOffer{
		candidate(pending, paracetamol(200, 30)),
	}, nil)

	groups, err := svc.Search(context.Background(), entities.SearchQuery{Term: "paracetamol"})
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestSearch_MatchesGenericNameAndCategory(t *testing.T) {
	repo := new(MockOfferRepository)
	svc := NewDrugSearchService(repo, nil, nil, 10)

	p := pharmacyAt("p1", 5.9612, 10.1485)
	repo.On("FindMatching", mock.Anything, mock.Anything).Return([]entities.CandidateOffer{
		candidate(p, paracetamol(200, 30)),
	}, nil)

	for _, term := range []string{"acetamino", "PAIN RELIEVERS", "Paracet"} {
		groups, err := svc.Search(context.Background(), entities.SearchQuery{Term: term})
		require.NoError(t, err)
		assert.Len(t, groups, 1, "term %q", term)
	}
}

func TestSearch_RanksWithDrugSearchOrder(t *testing.T) {
	repo := new(MockOfferRepository)
	svc := NewDrugSearchService(repo, nil, nil, 10)

	stocked := pharmacyAt("stocked", 5.9612, 10.1485)
	empty := pharmacyAt("empty", 5.9650, 10.1500)

	repo.On("FindMatching", mock.Anything, mock.Anything).Return([]entities.CandidateOffer{
		candidate(empty, paracetamol(150, 0)),
		candidate(stocked, paracetamol(200, 30)),
	}, nil)

	groups, err := svc.Search(context.Background(), entities.SearchQuery{Term: "paracetamol"})
	require.NoError(t, err)

	// The in-stock pharmacy outranks the cheaper but out-of-stock one.
	require.Len(t, groups, 2)
	assert.Equal(t, "stocked", groups[0].Pharmacy.ID)
}

func TestSearch_LogsEventBestEffort(t *testing.T) {
	repo := new(MockOfferRepository)
	analytics := new(MockAnalyticsRepository)
	svc := NewDrugSearchService(repo, nil, analytics, 10)

	p := pharmacyAt("p1", 5.9612, 10.1485)
	repo.On("FindMatching", mock.Anything, mock.Anything).Return([]entities.CandidateOffer{
		candidate(p, paracetamol(200, 30)),
	}, nil)
	analytics.On("LogEvent", mock.Anything, mock.MatchedBy(func(e *entities.SearchEvent) bool {
		return e.Term == "paracetamol" && e.ResultCount == 1
	})).Return(errors.New("analytics db down"))

	groups, err := svc.Search(context.Background(), entities.SearchQuery{Term: "paracetamol"})
	require.NoError(t, err, "analytics failure never fails the search")
	assert.Len(t, groups, 1)
	analytics.AssertExpectations(t)
}

func TestSearch_PassesCoarseBoundsToSupplier(t *testing.T) {
	repo := new(MockOfferRepository)
	svc := NewDrugSearchService(repo, nil, nil, 10)

	repo.On("FindMatching", mock.Anything, mock.MatchedBy(func(q repositories.OfferQuery) bool {
		return q.Bounds != nil && q.Bounds.North > 5.9597 && q.Bounds.South < 5.9597
	})).Return([]entities.CandidateOffer{}, nil)

	center := geo.Point{Latitude: 5.9597, Longitude: 10.1460}
	_, err := svc.Search(context.Background(), entities.SearchQuery{Term: "paracetamol", Center: &center})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
