package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

type FractionalSelection struct {
	MenuItemID string
	Flavor1ID  string
	Flavor2ID  string
	Size       domain.Size
}

// FractionalKey identifies a half-and-half line. The flavor pair is sorted so
// both selection orders land on the same cart line.
func FractionalKey(menuItemID string, size domain.Size, flavor1ID, flavor2ID string) string {
	a, b := canonicalPair(flavor1ID, flavor2ID)
	return strings.Join([]string{menuItemID, string(size), a, b}, ":")
}

func canonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// FractionalNotes renders the composition stored on the order item,
// e.g. "Grande - 1/2 Calabresa, 1/2 Margherita".
func FractionalNotes(size domain.Size, flavor1Name, flavor2Name string) string {
	return fmt.Sprintf("%s - 1/2 %s, 1/2 %s", size.Label(), flavor1Name, flavor2Name)
}

type pricer struct {
	repo Repository
}

func NewPricer(repo Repository) FractionalPricer {
	return &pricer{repo: repo}
}

// Confirm prices a two-flavor item at the more expensive flavor's price for
// the size.
func (p *pricer) Confirm(ctx context.Context, sel FractionalSelection) (cart.Line, error) {
	if err := validateSelection(sel); err != nil {
		return cart.Line{}, err
	}

	item, err := p.repo.FindItemByID(ctx, sel.MenuItemID)
	if err != nil {
		return cart.Line{}, err
	}
	if !item.IsActive {
		return cart.Line{}, notConfirmable("menuItemId", "menu item is not available")
	}
	if !item.SupportsFractional {
		return cart.Line{}, notConfirmable("menuItemId", "menu item does not support two flavors")
	}

	first, second := canonicalPair(sel.Flavor1ID, sel.Flavor2ID)
	ids := uniqueIDs(first, second)

	flavors, err := p.repo.FindFlavorsByIDs(ctx, ids)
	if err != nil {
		return cart.Line{}, err
	}
	byID := make(map[string]domain.FlavorOption, len(flavors))
	for _, f := range flavors {
		byID[f.ID] = f
	}

	allowed, err := p.repo.FindAllowedFlavorIDs(ctx, item.ID)
	if err != nil {
		return cart.Line{}, err
	}
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = struct{}{}
	}

	for _, id := range ids {
		f, ok := byID[id]
		if !ok || f.BusinessID != item.BusinessID {
			return cart.Line{}, notConfirmable("flavors", fmt.Sprintf("flavor %s not found", id))
		}
		if !f.IsActive {
			return cart.Line{}, notConfirmable("flavors", fmt.Sprintf("flavor %s is not available", f.Name))
		}
		if len(allowedSet) > 0 {
			if _, ok := allowedSet[id]; !ok {
				return cart.Line{}, notConfirmable("flavors", fmt.Sprintf("flavor %s is not offered for %s", f.Name, item.Name))
			}
		}
	}

	prices, err := p.repo.FindFlavorPrices(ctx, ids, sel.Size)
	if err != nil {
		return cart.Line{}, err
	}
	priceByFlavor := make(map[string]decimal.Decimal, len(prices))
	for _, fp := range prices {
		priceByFlavor[fp.FlavorID] = fp.Price
	}

	unitPrice := decimal.Zero
	for _, id := range ids {
		price, ok := priceByFlavor[id]
		if !ok {
			return cart.Line{}, notConfirmable("size", fmt.Sprintf("flavor %s has no price for size %s", byID[id].Name, sel.Size.Label()))
		}
		unitPrice = decimal.Max(unitPrice, price)
	}

	notes := FractionalNotes(sel.Size, byID[first].Name, byID[second].Name)

	return cart.Line{
		Key:        FractionalKey(item.ID, sel.Size, first, second),
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  unitPrice,
		Quantity:   1,
		Notes:      &notes,
	}, nil
}

func validateSelection(sel FractionalSelection) error {
	var details []apperrors.ValidationDetail

	if sel.MenuItemID == "" {
		details = append(details, apperrors.ValidationDetail{Field: "menuItemId", Message: "menuItemId is required"})
	}
	if sel.Flavor1ID == "" {
		details = append(details, apperrors.ValidationDetail{Field: "flavor1Id", Message: "flavor1Id is required"})
	}
	if sel.Flavor2ID == "" {
		details = append(details, apperrors.ValidationDetail{Field: "flavor2Id", Message: "flavor2Id is required"})
	}
	if !sel.Size.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "size", Message: "size must be one of pequena, media, grande, familia"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func notConfirmable(field, message string) error {
	return apperrors.NewValidationError("selection cannot be confirmed", apperrors.ValidationDetail{
		Field:   field,
		Message: message,
	})
}

func uniqueIDs(a, b string) []string {
	if a == b {
		return []string{a}
	}
	return []string{a, b}
}
