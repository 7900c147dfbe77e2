package menu

import (
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"storefront/internal/menu/repository"
)

type Module struct {
	Catalog    Catalog
	Pricer     FractionalPricer
	Controller *Controller
}

func NewModule(db *sqlx.DB, validate *validator.Validate, logger *zap.Logger) *Module {
	repo := repository.NewMenuRepository(db)
	catalog := NewCatalog(repo)
	pricer := NewPricer(repo)
	uc := NewSearchUseCase(catalog)
	return &Module{
		Catalog:    catalog,
		Pricer:     pricer,
		Controller: NewController(uc, pricer, validate, logger),
	}
}
