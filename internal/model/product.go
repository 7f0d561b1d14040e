package model

import "github.com/shopspring/decimal"

// LowStockThreshold is the quantity below which a product counts as low stock.
const LowStockThreshold = 10

type Product struct {
	BaseModel
	Name        string          `db:"name" json:"name"`
	Category    string          `db:"category" json:"category"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Description string          `db:"description" json:"description"`
}

// StockValue is price times quantity on hand.
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

func (p Product) OutOfStock() bool { return p.Quantity == 0 }

func (p Product) LowStock() bool { return p.Quantity < LowStockThreshold }
