package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/database"
	"storefront/internal/pricing"
)

type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
}

type OrderItemRepository interface {
	InsertBatch(ctx context.Context, items []domain.OrderItem) error
}

type RedemptionRepository interface {
	Insert(ctx context.Context, redemption *domain.CouponRedemption) error
}

type CouponUsageRepository interface {
	IncrementUses(ctx context.Context, couponID string) error
}

type BusinessRepository interface {
	FindByID(ctx context.Context, id string) (*domain.DeliveryBusiness, error)
}

type MenuCatalog interface {
	GetItemsByIDsAndBusiness(ctx context.Context, ids []string, businessID string) ([]domain.MenuItem, []string, error)
}

type SubmissionService struct {
	orderRepo        OrderRepository
	orderItemRepo    OrderItemRepository
	redemptionRepo   RedemptionRepository
	couponUsageRepo  CouponUsageRepository
	businessRepo     BusinessRepository
	catalog          MenuCatalog
	logger           *zap.Logger
	writeTimeout     time.Duration
	maxRetryAttempts int
	now              func() time.Time
}

func NewSubmissionService(
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	redemptionRepo RedemptionRepository,
	couponUsageRepo CouponUsageRepository,
	businessRepo BusinessRepository,
	catalog MenuCatalog,
	logger *zap.Logger,
	writeTimeout time.Duration,
	maxRetryAttempts int,
) *SubmissionService {
	return &SubmissionService{
		orderRepo:        orderRepo,
		orderItemRepo:    orderItemRepo,
		redemptionRepo:   redemptionRepo,
		couponUsageRepo:  couponUsageRepo,
		businessRepo:     businessRepo,
		catalog:          catalog,
		logger:           logger,
		writeTimeout:     writeTimeout,
		maxRetryAttempts: maxRetryAttempts,
		now:              time.Now,
	}
}

// Submit persists an order, its items and the coupon redemption as separate
// writes. A failure after the order row exists leaves the row in place and is
// reported as a RemoteWriteFailure carrying its id.
func (s *SubmissionService) Submit(ctx context.Context, req cart.SubmitRequest) (*domain.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("order submission started",
		zap.String("businessId", req.BusinessID),
		zap.Int("lineCount", len(req.Lines)),
		zap.String("mode", string(req.Mode)),
	)

	// Bloque 1: Pre-validaciones de negocio y menú
	business, err := s.businessRepo.FindByID(ctx, req.BusinessID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("loading business: %w", err)
	}
	if !business.IsOpen && req.ScheduledAt == nil {
		return nil, apperrors.NewConflictError("business is not accepting orders")
	}

	if err := s.checkMenuItems(ctx, req); err != nil {
		return nil, err
	}

	// Bloque 2: Totales
	totals := pricing.Compute(cart.PricingLines(req.Lines), req.Mode, business.DeliveryFee, req.Coupon)
	if totals.CouponStale {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "coupon",
			Message: "coupon must be applied again after the cart changed",
		})
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	// Bloque 3: Escrituras
	now := s.now().UTC().Truncate(time.Second)
	order := &domain.Order{
		ID:              uuid.NewString(),
		Code:            newOrderCode(),
		BusinessID:      req.BusinessID,
		CustomerID:      req.Customer.ID,
		CustomerName:    strings.TrimSpace(req.Customer.Name),
		CustomerPhone:   strings.TrimSpace(req.Customer.Phone),
		CustomerAddress: req.Customer.Address,
		FulfillmentMode: req.Mode,
		TotalAmount:     totals.Total,
		DeliveryFee:     totals.DeliveryFee,
		DiscountAmount:  totals.Discount,
		PaymentMethod:   req.PaymentMethod,
		Status:          domain.OrderStatusPending,
		ScheduledAt:     req.ScheduledAt,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Coupon != nil {
		code := req.Coupon.Code
		order.CouponCode = &code
	}

	if err := s.orderRepo.Insert(writeCtx, order); err != nil {
		s.logger.Error("failed to insert order", zap.String("businessId", req.BusinessID), zap.Error(err))
		return nil, apperrors.NewRemoteWriteFailure("", apperrors.StageOrder, err)
	}

	items := make([]domain.OrderItem, len(req.Lines))
	for i, line := range req.Lines {
		items[i] = domain.OrderItem{
			ID:         uuid.NewString(),
			OrderID:    order.ID,
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.Total(),
			Notes:      line.Notes,
		}
	}

	if err := s.orderItemRepo.InsertBatch(writeCtx, items); err != nil {
		s.logger.Error("failed to insert order items, order left without items",
			zap.String("orderId", order.ID),
			zap.Int("itemCount", len(items)),
			zap.Error(err),
		)
		return nil, apperrors.NewRemoteWriteFailure(order.ID, apperrors.StageOrderItems, err)
	}

	if req.Coupon != nil {
		if err := s.redeemCoupon(writeCtx, order, req.Coupon); err != nil {
			return nil, err
		}
	}

	s.logger.Info("order submitted",
		zap.String("orderId", order.ID),
		zap.String("code", order.Code),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)

	return order, nil
}

func (s *SubmissionService) redeemCoupon(ctx context.Context, order *domain.Order, applied *pricing.AppliedCoupon) error {
	redemption := &domain.CouponRedemption{
		ID:             uuid.NewString(),
		CouponID:       applied.CouponID,
		OrderID:        order.ID,
		CustomerID:     order.CustomerID,
		DiscountAmount: order.DiscountAmount,
		CreatedAt:      order.CreatedAt,
	}

	if err := s.redemptionRepo.Insert(ctx, redemption); err != nil {
		s.logger.Error("failed to insert coupon redemption",
			zap.String("orderId", order.ID),
			zap.String("couponId", applied.CouponID),
			zap.Error(err),
		)
		return apperrors.NewRemoteWriteFailure(order.ID, apperrors.StageRedemption, err)
	}

	// uses_count is advisory; the redemption row is the record of use.
	err := database.RetryOnDeadlock(ctx, s.maxRetryAttempts, s.logger, func(ctx context.Context) error {
		return s.couponUsageRepo.IncrementUses(ctx, applied.CouponID)
	})
	if err != nil {
		s.logger.Warn("failed to increment coupon uses",
			zap.String("orderId", order.ID),
			zap.String("couponId", applied.CouponID),
			zap.Error(err),
		)
	}

	return nil
}

func (s *SubmissionService) checkMenuItems(ctx context.Context, req cart.SubmitRequest) error {
	ids := make([]string, 0, len(req.Lines))
	seen := make(map[string]struct{}, len(req.Lines))
	for _, line := range req.Lines {
		if _, ok := seen[line.MenuItemID]; ok {
			continue
		}
		seen[line.MenuItemID] = struct{}{}
		ids = append(ids, line.MenuItemID)
	}

	found, notFoundIDs, err := s.catalog.GetItemsByIDsAndBusiness(ctx, ids, req.BusinessID)
	if err != nil {
		return fmt.Errorf("loading menu items: %w", err)
	}

	inactive := make(map[string]struct{})
	for _, item := range found {
		if !item.IsActive {
			inactive[item.ID] = struct{}{}
		}
	}

	missing := make(map[string]struct{}, len(notFoundIDs))
	for _, id := range notFoundIDs {
		missing[id] = struct{}{}
	}

	var details []apperrors.ValidationDetail
	for i, line := range req.Lines {
		if _, ok := missing[line.MenuItemID]; ok {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("lines[%d].menuItemId", i),
				Message: "menu item does not belong to this business",
			})
			continue
		}
		if _, ok := inactive[line.MenuItemID]; ok {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("lines[%d].menuItemId", i),
				Message: "menu item is not available",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

// newOrderCode is the short code shown to customers and staff.
func newOrderCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}
