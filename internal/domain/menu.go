package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID                 string          `db:"id"`
	BusinessID         string          `db:"business_id"`
	Name               string          `db:"name"`
	Price              decimal.Decimal `db:"price"`
	SupportsFractional bool            `db:"supports_fractional"`
	IsActive           bool            `db:"is_active"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

type Size string

const (
	SizeSmall  Size = "pequena"
	SizeMedium Size = "media"
	SizeLarge  Size = "grande"
	SizeFamily Size = "familia"
)

var sizeLabels = map[Size]string{
	SizeSmall:  "Pequena",
	SizeMedium: "Média",
	SizeLarge:  "Grande",
	SizeFamily: "Família",
}

func (s Size) Valid() bool {
	_, ok := sizeLabels[s]
	return ok
}

func (s Size) Label() string {
	if label, ok := sizeLabels[s]; ok {
		return label
	}
	return string(s)
}

type FlavorOption struct {
	ID         string `db:"id"`
	BusinessID string `db:"business_id"`
	Name       string `db:"name"`
	IsActive   bool   `db:"is_active"`
}

type FlavorPrice struct {
	FlavorID string          `db:"flavor_id"`
	Size     Size            `db:"size"`
	Price    decimal.Decimal `db:"price"`
}
