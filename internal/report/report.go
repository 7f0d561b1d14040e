package report

import (
	"sort"
	"time"

	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/shopspring/decimal"
)

const (
	recentLimit     = 5
	topProductLimit = 4
)

// placeholderTopProducts pads the top products panel when fewer than four
// products have sales history.
var placeholderTopProducts = []ProductPerformance{
	{Name: `MacBook Pro 15"`, Percentage: 49},
	{Name: "iMac Pro 2019", Percentage: 19},
	{Name: "iPad Pro with Apple Pencil", Percentage: 29},
	{Name: `MacBook Pro 13"`, Percentage: 56},
}

// ProductSales is the total quantity sold of one product.
type ProductSales struct {
	Name      string `db:"name"`
	TotalSold int64  `db:"total_sold"`
}

// Snapshot is everything the dashboard is computed from.
type Snapshot struct {
	Products   []model.Product
	Orders     []model.Order
	UserCount  int
	TopSellers []ProductSales
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type StatusShare struct {
	Status     string `json:"status"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type ProductPerformance struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

type MonthlyRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Dashboard struct {
	TotalProducts      int                  `json:"total_products"`
	TotalStock         int                  `json:"total_stock"`
	OutOfStock         int                  `json:"out_of_stock"`
	TotalOrders        int                  `json:"total_orders"`
	TotalRevenue       decimal.Decimal      `json:"total_revenue"`
	TotalCustomers     int                  `json:"total_customers"`
	RecentOrders       []model.Order        `json:"recent_orders"`
	RecentProducts     []model.Product      `json:"recent_products"`
	CategoryCounts     []CategoryCount      `json:"category_counts"`
	StatusDistribution []StatusShare        `json:"status_distribution"`
	TopProducts        []ProductPerformance `json:"top_products"`
	MonthlyRevenue     []MonthlyRevenue     `json:"monthly_revenue"`
}

// BuildDashboard aggregates a snapshot. Monthly revenue covers the calendar
// year of now.
func BuildDashboard(s *Snapshot, now time.Time) *Dashboard {
	d := &Dashboard{
		TotalProducts:  len(s.Products),
		TotalOrders:    len(s.Orders),
		TotalRevenue:   decimal.Zero,
		TotalCustomers: s.UserCount,
	}

	categories := map[string]int{}
	for _, p := range s.Products {
		d.TotalStock += p.Quantity
		if p.OutOfStock() {
			d.OutOfStock++
		}
		categories[p.Category]++
	}
	for name, n := range categories {
		d.CategoryCounts = append(d.CategoryCounts, CategoryCount{Category: name, Count: n})
	}
	sort.Slice(d.CategoryCounts, func(i, j int) bool {
		return d.CategoryCounts[i].Category < d.CategoryCounts[j].Category
	})

	for _, o := range s.Orders {
		d.TotalRevenue = d.TotalRevenue.Add(o.Amount)
	}

	d.RecentOrders = recentOrders(s.Orders)
	d.RecentProducts = recentProducts(s.Products)
	d.StatusDistribution = statusDistribution(s.Orders)
	d.TopProducts = topProducts(s.TopSellers)
	d.MonthlyRevenue = monthlyRevenue(s.Orders, now.Year())
	return d
}

func recentOrders(orders []model.Order) []model.Order {
	sorted := append([]model.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].OrderDate.Equal(sorted[j].OrderDate) {
			return sorted[i].OrderDate.After(sorted[j].OrderDate)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted[:min(recentLimit, len(sorted))]
}

func recentProducts(products []model.Product) []model.Product {
	sorted := append([]model.Product(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted[:min(recentLimit, len(sorted))]
}

// statusDistribution floors each share, so the percentages may sum to
// slightly less than 100.
func statusDistribution(orders []model.Order) []StatusShare {
	if len(orders) == 0 {
		return nil
	}

	counts := map[string]int{}
	for _, o := range orders {
		counts[o.Status]++
	}

	shares := make([]StatusShare, 0, len(counts))
	for status, n := range counts {
		shares = append(shares, StatusShare{
			Status:     status,
			Count:      n,
			Percentage: n * 100 / len(orders),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Status < shares[j].Status
	})
	return shares
}

// topProducts rates each seller against the best seller, then pads the list
// with placeholders up to four entries.
func topProducts(sellers []ProductSales) []ProductPerformance {
	sellers = sellers[:min(topProductLimit, len(sellers))]

	var best int64
	for _, s := range sellers {
		if s.TotalSold > best {
			best = s.TotalSold
		}
	}

	out := make([]ProductPerformance, 0, topProductLimit)
	for _, s := range sellers {
		pct := 0
		if best > 0 {
			pct = int(s.TotalSold * 100 / best)
		}
		out = append(out, ProductPerformance{Name: s.Name, Percentage: pct})
	}
	for len(out) < topProductLimit {
		out = append(out, placeholderTopProducts[len(out)])
	}
	return out
}

func monthlyRevenue(orders []model.Order, year int) []MonthlyRevenue {
	months := make([]MonthlyRevenue, 12)
	for i := range months {
		months[i] = MonthlyRevenue{Month: time.Month(i + 1).String()[:3], Revenue: decimal.Zero}
	}
	for _, o := range orders {
		if o.OrderDate.Year() != year {
			continue
		}
		m := o.OrderDate.Month() - 1
		months[m].Revenue = months[m].Revenue.Add(o.Amount)
	}
	return months
}

type CategoryValue struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Value    decimal.Decimal `json:"value"`
}

type LowStockStats struct {
	Total      int `json:"total"`
	OutOfStock int `json:"out_of_stock"`
	LowStock   int `json:"low_stock"`
}

// Report lists categories in the order they first appear. HighestValueCategory
// is the zero value when there are no products.
type Report struct {
	TotalCount           int             `json:"total_count"`
	TotalValue           decimal.Decimal `json:"total_value"`
	Categories           []CategoryValue `json:"categories"`
	HighestValueCategory CategoryValue   `json:"highest_value_category"`
	CategoryCount        int             `json:"category_count"`
	LowStockItems        []model.Product `json:"low_stock_items"`
	LowStockStats        LowStockStats   `json:"low_stock_stats"`
	GeneratedAt          time.Time       `json:"generated_at"`
}

// BuildReport summarizes stock value per category and the low stock items.
func BuildReport(products []model.Product, now time.Time) *Report {
	r := &Report{
		TotalCount:  len(products),
		TotalValue:  decimal.Zero,
		GeneratedAt: now,
	}

	index := map[string]int{}
	for _, p := range products {
		value := p.StockValue()
		r.TotalValue = r.TotalValue.Add(value)

		i, ok := index[p.Category]
		if !ok {
			i = len(r.Categories)
			index[p.Category] = i
			r.Categories = append(r.Categories, CategoryValue{Category: p.Category, Value: decimal.Zero})
		}
		r.Categories[i].Count++
		r.Categories[i].Value = r.Categories[i].Value.Add(value)

		if p.LowStock() {
			r.LowStockItems = append(r.LowStockItems, p)
			if p.OutOfStock() {
				r.LowStockStats.OutOfStock++
			} else {
				r.LowStockStats.LowStock++
			}
		}
	}

	r.CategoryCount = len(r.Categories)
	r.LowStockStats.Total = len(r.LowStockItems)

	for i, c := range r.Categories {
		if i == 0 || c.Value.GreaterThan(r.HighestValueCategory.Value) {
			r.HighestValueCategory = c
		}
	}
	return r
}
