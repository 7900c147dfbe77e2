package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/identity"
	"storefront/internal/menu"
)

type BusinessRepository interface {
	FindByID(ctx context.Context, id string) (*domain.DeliveryBusiness, error)
}

type ClaimsResolver interface {
	Resolve(ctx context.Context, userID string) (identity.Claims, error)
}

type MenuCatalog interface {
	GetItemsByIDsAndBusiness(ctx context.Context, ids []string, businessID string) ([]domain.MenuItem, []string, error)
}

// CheckoutUseCase rebuilds a checkout session from a request body so pricing
// and submission go through the same cart rules as an interactive session.
type CheckoutUseCase struct {
	businessRepo BusinessRepository
	catalog      MenuCatalog
	pricer       menu.FractionalPricer
	validator    cart.CouponValidator
	submitter    cart.Submitter
	claims       ClaimsResolver
	logger       *zap.Logger
}

func NewCheckoutUseCase(
	businessRepo BusinessRepository,
	catalog MenuCatalog,
	pricer menu.FractionalPricer,
	validator cart.CouponValidator,
	submitter cart.Submitter,
	claims ClaimsResolver,
	logger *zap.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		businessRepo: businessRepo,
		catalog:      catalog,
		pricer:       pricer,
		validator:    validator,
		submitter:    submitter,
		claims:       claims,
		logger:       logger,
	}
}

// ComputePricing prices the cart. A rejected coupon does not fail the call;
// the totals come back without it and the reason is reported.
func (uc *CheckoutUseCase) ComputePricing(ctx context.Context, businessID string, req dto.PricingRequest) (*dto.PricingResponse, error) {
	checkout, err := uc.buildCheckout(ctx, businessID, domain.FulfillmentMode(req.FulfillmentMode), req.Items, req.CustomerID)
	if err != nil {
		return nil, err
	}

	resp := &dto.PricingResponse{}
	if req.CouponCode != nil && *req.CouponCode != "" {
		if _, err := checkout.ApplyCoupon(ctx, *req.CouponCode); err != nil {
			cre, ok := apperrors.IsCouponRejectedError(err)
			if !ok {
				return nil, err
			}
			resp.CouponRejection = string(cre.Reason)
		}
	}

	totals := checkout.Totals()
	resp.Lines = checkout.Lines()
	resp.Subtotal = totals.Subtotal
	resp.DeliveryFee = totals.DeliveryFee
	resp.Discount = totals.Discount
	resp.Total = totals.Total
	resp.Coupon = checkout.Coupon()
	return resp, nil
}

// PlaceOrder submits the cart. Unlike pricing, a rejected coupon fails the
// submission so the customer is never charged a total they did not see.
// A customer id in the body must belong to viewerID.
func (uc *CheckoutUseCase) PlaceOrder(ctx context.Context, businessID, viewerID string, req dto.SubmitOrderRequest) (*domain.Order, error) {
	if err := uc.authorizeCustomer(ctx, viewerID, req.Customer.ID); err != nil {
		return nil, err
	}

	checkout, err := uc.buildCheckout(ctx, businessID, domain.FulfillmentMode(req.FulfillmentMode), req.Items, req.Customer.ID)
	if err != nil {
		return nil, err
	}

	customer := cart.Customer{
		ID:      req.Customer.ID,
		Name:    req.Customer.Name,
		Phone:   req.Customer.Phone,
		Address: req.Customer.Address,
	}

	// field errors first, so a bad coupon does not hide them
	if err := checkout.Validate(customer); err != nil {
		return nil, err
	}

	if req.CouponCode != nil && *req.CouponCode != "" {
		if _, err := checkout.ApplyCoupon(ctx, *req.CouponCode); err != nil {
			return nil, err
		}
	}

	return checkout.Submit(ctx, uc.submitter, customer, req.PaymentMethod, req.ScheduledAt, req.Notes)
}

func (uc *CheckoutUseCase) authorizeCustomer(ctx context.Context, viewerID string, customerID *string) error {
	if customerID == nil || *customerID == "" {
		return nil
	}
	if viewerID == "" {
		return apperrors.NewForbiddenError("ordering as a customer requires a signed-in viewer")
	}

	claims, err := uc.claims.Resolve(ctx, viewerID)
	if err != nil {
		return fmt.Errorf("resolving viewer: %w", err)
	}
	if claims.CustomerID == nil || *claims.CustomerID != *customerID {
		uc.logger.Warn("customer id does not belong to viewer",
			zap.String("viewerId", viewerID),
			zap.String("customerId", *customerID),
		)
		return apperrors.NewForbiddenError("customer does not belong to viewer")
	}
	return nil
}

func (uc *CheckoutUseCase) buildCheckout(ctx context.Context, businessID string, mode domain.FulfillmentMode, items []dto.CartItemRequest, customerID *string) (*cart.Checkout, error) {
	business, err := uc.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("loading business: %w", err)
	}

	lines, err := uc.resolveLines(ctx, businessID, items)
	if err != nil {
		return nil, err
	}

	checkout := cart.NewCheckout(businessID, business.DeliveryFee, uc.validator, uc.logger)
	checkout.SetCustomer(customerID)
	if _, err := checkout.SetMode(ctx, mode); err != nil {
		return nil, err
	}
	for _, line := range lines {
		if _, err := checkout.Add(ctx, line); err != nil {
			return nil, err
		}
	}

	return checkout, nil
}

// resolveLines prices every requested item from the menu; client prices are
// never trusted.
func (uc *CheckoutUseCase) resolveLines(ctx context.Context, businessID string, items []dto.CartItemRequest) ([]cart.Line, error) {
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.MenuItemID]; !ok {
			seen[item.MenuItemID] = struct{}{}
			ids = append(ids, item.MenuItemID)
		}
	}

	found, _, err := uc.catalog.GetItemsByIDsAndBusiness(ctx, ids, businessID)
	if err != nil {
		return nil, fmt.Errorf("loading menu items: %w", err)
	}
	byID := make(map[string]domain.MenuItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	var details []apperrors.ValidationDetail
	lines := make([]cart.Line, 0, len(items))
	for i, item := range items {
		menuItem, ok := byID[item.MenuItemID]
		if !ok || !menuItem.IsActive {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].menuItemId", i),
				Message: "menu item is not available for this business",
			})
			continue
		}

		if item.Fractional == nil {
			lines = append(lines, cart.Line{
				Key:        cart.PlainKey(menuItem.ID),
				MenuItemID: menuItem.ID,
				Name:       menuItem.Name,
				UnitPrice:  menuItem.Price,
				Quantity:   item.Quantity,
			})
			continue
		}

		line, err := uc.pricer.Confirm(ctx, menu.FractionalSelection{
			MenuItemID: menuItem.ID,
			Flavor1ID:  item.Fractional.Flavor1ID,
			Flavor2ID:  item.Fractional.Flavor2ID,
			Size:       domain.Size(item.Fractional.Size),
		})
		if err != nil {
			if _, ok := apperrors.IsValidationError(err); ok {
				details = append(details, apperrors.ValidationDetail{
					Field:   fmt.Sprintf("items[%d].fractional", i),
					Message: "flavor selection cannot be confirmed",
				})
				continue
			}
			return nil, err
		}
		line.Quantity = item.Quantity
		lines = append(lines, line)
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}
	return lines, nil
}
