package order

import (
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	businessrepo "storefront/internal/business/repository"
	"storefront/internal/cart"
	"storefront/internal/changefeed"
	"storefront/internal/config"
	couponrepo "storefront/internal/coupon/repository"
	"storefront/internal/menu"
	"storefront/internal/order/controller"
	orderrepo "storefront/internal/order/repository"
	"storefront/internal/order/service"
	"storefront/internal/order/usecase"
)

type Dependencies struct {
	DB        *sqlx.DB
	Publisher changefeed.Publisher
	Menu      *menu.Module
	Coupons   cart.CouponValidator
	Claims    usecase.ClaimsResolver
	Config    *config.Config
	Validate  *validator.Validate
	Logger    *zap.Logger
}

func NewModule(deps Dependencies) *controller.OrderController {
	orderRepo := orderrepo.NewPublishingOrderRepository(
		orderrepo.NewOrderRepository(deps.DB),
		deps.Publisher,
		deps.Logger,
	)
	businessRepo := businessrepo.NewBusinessRepository(deps.DB)

	submissionSvc := service.NewSubmissionService(
		orderRepo,
		orderrepo.NewOrderItemRepository(deps.DB),
		couponrepo.NewRedemptionRepository(deps.DB),
		couponrepo.NewCouponRepository(deps.DB),
		businessRepo,
		deps.Menu.Catalog,
		deps.Logger,
		deps.Config.Order.WriteTimeout,
		deps.Config.Order.MaxRetryAttempts,
	)
	statusSvc := service.NewStatusService(orderRepo, deps.Claims, deps.Logger)

	checkoutUC := usecase.NewCheckoutUseCase(
		businessRepo,
		deps.Menu.Catalog,
		deps.Menu.Pricer,
		deps.Coupons,
		submissionSvc,
		deps.Claims,
		deps.Logger,
	)

	return controller.NewOrderController(checkoutUC, statusSvc, deps.Validate, deps.Logger)
}
