// Package order prices guest cart lines against an in-memory catalog snapshot.
package order

import (
	"context"

	"github.com/mabrurgoods/storefront/internal/catalog"
	"github.com/mabrurgoods/storefront/internal/session"
	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/mabrurgoods/storefront/pkg/logger"
)

// UnknownProductName labels lines whose product is missing from the catalog.
const UnknownProductName = "Unknown Product"

type SummaryLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	LineTotal int64  `json:"lineTotal"`
	Resolved  bool   `json:"resolved"`
}

type Summary struct {
	Lines     []SummaryLine `json:"lines"`
	Subtotal  int64         `json:"subtotal"`
	ItemCount int64         `json:"itemCount"`
}

// Unresolved returns the product ids that were priced as unknown products.
func (s Summary) Unresolved() []string {
	var ids []string
	for _, line := range s.Lines {
		if !line.Resolved {
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}

// Summarize joins lines against lookup in input order. Every input line yields exactly
// one summary line; a product the catalog no longer has is priced at zero.
func Summarize(lines []session.CartLine, lookup catalog.Lookup) Summary {
	summary := Summary{Lines: make([]SummaryLine, 0, len(lines))}
	for _, line := range lines {
		row := SummaryLine{
			ProductID: line.ProductID,
			Name:      UnknownProductName,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
		}
		if lookup != nil {
			if product, ok := lookup.GetProduct(line.ProductID); ok {
				row.Name = product.Name
				row.UnitPrice = product.Price
				row.Resolved = true
			}
		}
		row.LineTotal = row.UnitPrice * row.Quantity

		summary.Lines = append(summary.Lines, row)
		summary.Subtotal += row.LineTotal
		summary.ItemCount += row.Quantity
	}
	return summary
}

// LogUnresolved records placeholder lines as recovered catalog misses.
func LogUnresolved(ctx context.Context, logg *logger.Logger, summary Summary) {
	ids := summary.Unresolved()
	if len(ids) == 0 || logg == nil {
		return
	}
	ctx = logg.WithFields(ctx, map[string]any{
		"code":        string(pkgerrors.CodeUnresolvedProduct),
		"product_ids": ids,
	})
	logg.Warn(ctx, "order.unresolved_products")
}
