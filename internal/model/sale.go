package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a historical sales record. It is not linked to the order lifecycle.
type Sale struct {
	ID           int64           `db:"id" json:"id"`
	ProductID    int64           `db:"product_id" json:"product_id"`
	QuantitySold int             `db:"quantity_sold" json:"quantity_sold"`
	SalePrice    decimal.Decimal `db:"sale_price" json:"sale_price"`
	SaleDate     time.Time       `db:"sale_date" json:"sale_date"`
}
