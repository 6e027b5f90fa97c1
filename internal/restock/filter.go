package restock

import (
	"context"
	"slices"
)

// StockChecker reports which of the candidate items have at least one batch
// on hand.
type StockChecker interface {
	ItemIDsWithStock(ctx context.Context, candidates []int64) ([]int64, error)
}

// OutOfStock returns the candidates that have no batch on hand, sorted and
// without duplicates. An empty candidate set returns without querying
// checker.
func OutOfStock(ctx context.Context, checker StockChecker, candidates []int64) ([]int64, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids := slices.Clone(candidates)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	inStock, err := checker.ItemIDsWithStock(ctx, ids)
	if err != nil {
		return nil, err
	}

	stocked := make(map[int64]bool, len(inStock))
	for _, id := range inStock {
		stocked[id] = true
	}

	var out []int64
	for _, id := range ids {
		if !stocked[id] {
			out = append(out, id)
		}
	}
	return out, nil
}
