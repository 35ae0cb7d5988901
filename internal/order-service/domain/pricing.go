package domain

import "github.com/shopspring/decimal"

// CalculateItemsPrice sums quantity x unit price over all lines.
func CalculateItemsPrice(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
