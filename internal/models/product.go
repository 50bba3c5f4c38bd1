package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a product row in the catalog.
type Product struct {
	ID          int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric;not null;check:chk_products_price_non_negative,price >= 0"`
	Description *string         `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// TableName pins the table name used by GORM.
func (Product) TableName() string {
	return "products"
}

// ProductInput is the request body accepted by create and update.
// ID is only decoded so create can reject client-supplied identifiers.
type ProductInput struct {
	ID          *int64           `json:"id"`
	Name        string           `json:"name" validate:"notblank"`
	Price       *decimal.Decimal `json:"price" validate:"required,nonnegative"`
	Description *string          `json:"description"`
}

// ProductInputMessages holds the client-facing message for each field rule of ProductInput.
var ProductInputMessages = map[string]string{
	"name.notblank":     "Product name is required",
	"price.required":    "Product price is required",
	"price.nonnegative": "Product price must be greater than or equal to 0",
}

// Apply copies the mutable fields of the input onto p, leaving the identity untouched.
func (in ProductInput) Apply(p *Product) {
	p.Name = in.Name
	if in.Price != nil {
		p.Price = *in.Price
	}
	p.Description = in.Description
}
