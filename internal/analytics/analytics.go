// Package analytics computes the admin dashboard figures from already-loaded
// store data. Everything here is pure aggregation; no network calls.
package analytics

import (
	"sort"

	"github.com/goustty/storefront/pkg/enums"
	"github.com/goustty/storefront/pkg/money"
	"github.com/goustty/storefront/pkg/types"
)

// ProductSales is one row of the top-products table.
type ProductSales struct {
	ProductID string
	Name      string
	Units     int
	Revenue   float64
}

// Summary is the dashboard overview block.
type Summary struct {
	Revenue        float64
	OrderCount     int
	CountsByStatus map[enums.OrderStatus]int
	AverageOrder   float64
}

// Summarize aggregates the order list. Revenue counts shipped and delivered
// orders only; cancelled orders never contribute.
func Summarize(orders []types.Order) Summary {
	counts := make(map[enums.OrderStatus]int, 4)
	revenues := make([]float64, 0, len(orders))

	for _, o := range orders {
		counts[o.Status]++
		if o.Status == enums.OrderStatusShipped || o.Status == enums.OrderStatusDelivered {
			revenues = append(revenues, o.Total)
		}
	}

	revenue := money.Sum(revenues...)
	avg := 0.0
	if len(revenues) > 0 {
		avg = revenue / float64(len(revenues))
	}

	return Summary{
		Revenue:        revenue,
		OrderCount:     len(orders),
		CountsByStatus: counts,
		AverageOrder:   avg,
	}
}

// TopProducts ranks products by units sold across non-cancelled orders,
// descending, capped at limit. Ties break by revenue, then product id for a
// stable order.
func TopProducts(orders []types.Order, limit int) []ProductSales {
	byID := map[string]*ProductSales{}

	for _, o := range orders {
		if o.Status == enums.OrderStatusCancelled {
			continue
		}
		for _, item := range o.Items {
			row, ok := byID[item.ProductID]
			if !ok {
				row = &ProductSales{ProductID: item.ProductID, Name: item.Name}
				byID[item.ProductID] = row
			}
			row.Units += item.Quantity
			row.Revenue = money.Sum(row.Revenue, money.LineTotal(item.Price, item.Quantity))
		}
	}

	ranked := make([]ProductSales, 0, len(byID))
	for _, row := range byID {
		ranked = append(ranked, *row)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Units != ranked[j].Units {
			return ranked[i].Units > ranked[j].Units
		}
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// OutOfStock lists the products currently not purchasable.
func OutOfStock(products []types.Product) []types.Product {
	var out []types.Product
	for _, p := range products {
		if !p.InStock {
			out = append(out, p)
		}
	}
	return out
}
