package analytics

import (
	"encoding/csv"
	"strconv"
	"strings"

	"comanda-client/internal/domain"
)

var csvHeader = []string{"order_id", "customer", "status", "created_at", "total", "items"}

// ExportCSV renders the order list as CSV: a header line plus exactly one
// line per order. The items column joins lines as "<qty>x <name>; ...".
func (l *Local) ExportCSV(orders []domain.Order) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(csvHeader)
	for _, o := range orders {
		_ = w.Write([]string{
			strconv.Itoa(o.ID),
			o.CustomerName,
			string(o.Status),
			o.CreatedAt,
			FormatAmount(o.Total),
			formatItems(o.Items),
		})
	}
	w.Flush()
	return b.String()
}

func formatItems(items []domain.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, strconv.Itoa(item.Quantity)+"x "+item.Name)
	}
	return strings.Join(parts, "; ")
}
