package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

type fakeRepository struct {
	items   map[string]domain.MenuItem
	flavors map[string]domain.FlavorOption
	prices  map[string]map[domain.Size]decimal.Decimal
	allowed map[string][]string
	err     error
}

func (f *fakeRepository) FindItemByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("menu item not found")
	}
	return &item, nil
}

func (f *fakeRepository) FindItemsByIDsAndBusiness(ctx context.Context, ids []string, businessID string) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	for _, id := range ids {
		if item, ok := f.items[id]; ok && item.BusinessID == businessID {
			out = append(out, item)
		}
	}
	return out, f.err
}

func (f *fakeRepository) FindFlavorsByIDs(ctx context.Context, ids []string) ([]domain.FlavorOption, error) {
	var out []domain.FlavorOption
	for _, id := range ids {
		if fl, ok := f.flavors[id]; ok {
			out = append(out, fl)
		}
	}
	return out, nil
}

func (f *fakeRepository) FindFlavorPrices(ctx context.Context, flavorIDs []string, size domain.Size) ([]domain.FlavorPrice, error) {
	var out []domain.FlavorPrice
	for _, id := range flavorIDs {
		if p, ok := f.prices[id][size]; ok {
			out = append(out, domain.FlavorPrice{FlavorID: id, Size: size, Price: p})
		}
	}
	return out, nil
}

func (f *fakeRepository) FindAllowedFlavorIDs(ctx context.Context, menuItemID string) ([]string, error) {
	return f.allowed[menuItemID], nil
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		items: map[string]domain.MenuItem{
			"pizza": {ID: "pizza", BusinessID: "b-1", Name: "Pizza Meio a Meio", SupportsFractional: true, IsActive: true},
			"soda":  {ID: "soda", BusinessID: "b-1", Name: "Refrigerante", IsActive: true},
		},
		flavors: map[string]domain.FlavorOption{
			"f-calabresa":  {ID: "f-calabresa", BusinessID: "b-1", Name: "Calabresa", IsActive: true},
			"f-margherita": {ID: "f-margherita", BusinessID: "b-1", Name: "Margherita", IsActive: true},
			"f-atum":       {ID: "f-atum", BusinessID: "b-1", Name: "Atum", IsActive: false},
			"f-foreign":    {ID: "f-foreign", BusinessID: "b-2", Name: "Portuguesa", IsActive: true},
		},
		prices: map[string]map[domain.Size]decimal.Decimal{
			"f-calabresa":  {domain.SizeLarge: decimal.RequireFromString("42.90"), domain.SizeMedium: decimal.RequireFromString("35.00")},
			"f-margherita": {domain.SizeLarge: decimal.RequireFromString("38.50")},
			"f-atum":       {domain.SizeLarge: decimal.RequireFromString("45.00")},
			"f-foreign":    {domain.SizeLarge: decimal.RequireFromString("40.00")},
		},
		allowed: map[string][]string{},
	}
}

func TestPricer_Confirm_TakesHigherPrice(t *testing.T) {
	p := NewPricer(newFakeRepository())

	line, err := p.Confirm(context.Background(), FractionalSelection{
		MenuItemID: "pizza",
		Flavor1ID:  "f-calabresa",
		Flavor2ID:  "f-margherita",
		Size:       domain.SizeLarge,
	})

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("42.90").Equal(line.UnitPrice))
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, "pizza", line.MenuItemID)
	require.NotNil(t, line.Notes)
	assert.Equal(t, "Grande - 1/2 Calabresa, 1/2 Margherita", *line.Notes)
	assert.Contains(t, *line.Notes, "Grande")
}

func TestPricer_Confirm_Symmetric(t *testing.T) {
	p := NewPricer(newFakeRepository())

	ab, err := p.Confirm(context.Background(), FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-calabresa", Flavor2ID: "f-margherita", Size: domain.SizeLarge})
	require.NoError(t, err)
	ba, err := p.Confirm(context.Background(), FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-margherita", Flavor2ID: "f-calabresa", Size: domain.SizeLarge})
	require.NoError(t, err)

	assert.True(t, ab.UnitPrice.Equal(ba.UnitPrice))
	assert.Equal(t, ab.Key, ba.Key)
	assert.Equal(t, *ab.Notes, *ba.Notes)
}

func TestPricer_Confirm_DistinctPairsAreDistinctLines(t *testing.T) {
	repo := newFakeRepository()
	repo.prices["f-margherita"][domain.SizeMedium] = decimal.RequireFromString("31.00")
	p := NewPricer(repo)

	large, err := p.Confirm(context.Background(), FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-calabresa", Flavor2ID: "f-margherita", Size: domain.SizeLarge})
	require.NoError(t, err)
	medium, err := p.Confirm(context.Background(), FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-calabresa", Flavor2ID: "f-margherita", Size: domain.SizeMedium})
	require.NoError(t, err)

	assert.NotEqual(t, large.Key, medium.Key)
	assert.True(t, decimal.RequireFromString("35.00").Equal(medium.UnitPrice))
}

func TestPricer_Confirm_SameFlavorTwice(t *testing.T) {
	p := NewPricer(newFakeRepository())

	line, err := p.Confirm(context.Background(), FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-calabresa", Flavor2ID: "f-calabresa", Size: domain.SizeLarge})

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("42.90").Equal(line.UnitPrice))
	assert.Equal(t, "Grande - 1/2 Calabresa, 1/2 Calabresa", *line.Notes)
}

func TestPricer_Confirm_NotConfirmable(t *testing.T) {
	tests := []struct {
		name   string
		sel    FractionalSelection
		mutate func(r *fakeRepository)
	}{
		{"item not fractional", FractionalSelection{MenuItemID: "soda", Flavor1ID: "f-calabresa", Flavor2ID: "f-margherita", Size: domain.SizeLarge}, nil},
		{"missing price for size", FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-calabresa", Flavor2ID: "f-margherita", Size: domain.SizeMedium}, nil},
		{"inactive flavor", FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-calabresa", Flavor2ID: "f-atum", Size: domain.SizeLarge}, nil},
		{"flavor from another business", FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-calabresa", Flavor2ID: "f-foreign", Size: domain.SizeLarge}, nil},
		{"unknown flavor", FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-calabresa", Flavor2ID: "f-nope", Size: domain.SizeLarge}, nil},
		{"invalid size", FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-calabresa", Flavor2ID: "f-margherita", Size: "gigante"}, nil},
		{"missing flavor", FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-calabresa", Size: domain.SizeLarge}, nil},
		{
			"flavor outside allowed set",
			FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-calabresa", Flavor2ID: "f-margherita", Size: domain.SizeLarge},
			func(r *fakeRepository) { r.allowed["pizza"] = []string{"f-calabresa"} },
		},
		{
			"inactive item",
			FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-calabresa", Flavor2ID: "f-margherita", Size: domain.SizeLarge},
			func(r *fakeRepository) {
				item := r.items["pizza"]
				item.IsActive = false
				r.items["pizza"] = item
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			if tt.mutate != nil {
				tt.mutate(repo)
			}
			p := NewPricer(repo)

			_, err := p.Confirm(context.Background(), tt.sel)

			_, ok := apperrors.IsValidationError(err)
			assert.True(t, ok, "expected ValidationError, got %v", err)
		})
	}
}

func TestPricer_Confirm_AllowedSetAcceptsMembers(t *testing.T) {
	repo := newFakeRepository()
	repo.allowed["pizza"] = []string{"f-calabresa", "f-margherita"}
	p := NewPricer(repo)

	_, err := p.Confirm(context.Background(), FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-margherita", Flavor2ID: "f-calabresa", Size: domain.SizeLarge})

	assert.NoError(t, err)
}

func TestPricer_Confirm_UnknownItem(t *testing.T) {
	p := NewPricer(newFakeRepository())

	_, err := p.Confirm(context.Background(), FractionalSelection{MenuItemID: "nope", Flavor1ID: "f-calabresa", Flavor2ID: "f-margherita", Size: domain.SizeLarge})

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestPricer_Confirm_RepositoryError(t *testing.T) {
	repo := newFakeRepository()
	repo.err = errors.New("db down")
	p := NewPricer(repo)

	_, err := p.Confirm(context.Background(), FractionalSelection{MenuItemID: "pizza", Flavor1ID: "f-calabresa", Flavor2ID: "f-margherita", Size: domain.SizeLarge})

	assert.EqualError(t, err, "db down")
}

func TestFractionalKey_Canonical(t *testing.T) {
	assert.Equal(t, "pizza:grande:a:b", FractionalKey("pizza", domain.SizeLarge, "b", "a"))
	assert.Equal(t, FractionalKey("pizza", domain.SizeLarge, "a", "b"), FractionalKey("pizza", domain.SizeLarge, "b", "a"))
}
