package memory

import "github.com/jcmexdev/orders-service/internal/order-service/domain"

func paginate[T any](items []T, page domain.PageRequest) []T {
	if page.PageSize <= 0 {
		return items
	}
	start := page.Offset()
	if start < 0 || start >= len(items) {
		return nil
	}
	end := min(start+page.PageSize, len(items))
	return items[start:end]
}
