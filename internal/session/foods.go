package session

import (
	"context"
	"fmt"

	"mealcheck/internal/fdc"
	"mealcheck/internal/fooddata"
	"mealcheck/internal/logging"
)

// FoodProvider looks foods up in an external database.
type FoodProvider interface {
	Search(ctx context.Context, text string) ([]fdc.SearchResult, error)
	FetchDetail(ctx context.Context, id string) ([]byte, error)
}

// FetchReport lists what EnsureFoodDetails did.
type FetchReport struct {
	Fetched []string
	Failed  map[string]error
}

// EnsureFoodDetails fetches every plan food missing from the cache.
// Failures are logged and left unresolved; the next call retries them.
func EnsureFoodDetails(ctx context.Context, provider FoodProvider, st *State) FetchReport {
	report := FetchReport{Failed: map[string]error{}}
	for _, id := range st.Plan.FoodIDs() {
		if _, ok := st.Food(id); ok {
			continue
		}
		if provider == nil {
			report.Failed[id] = fmt.Errorf("no food provider configured")
			continue
		}
		raw, err := provider.FetchDetail(ctx, id)
		if err == nil {
			_, err = st.PutFood(id, raw)
		}
		if err != nil {
			logging.Warn().Err(err).Str("food_id", id).Bool("retryable", fdc.IsRetryable(err)).Msg("failed to fetch food")
			report.Failed[id] = err
			continue
		}
		report.Fetched = append(report.Fetched, id)
	}
	return report
}

// LookupFood returns the cached record for id, fetching it when absent.
// The bool reports whether the cache changed.
func LookupFood(ctx context.Context, provider FoodProvider, st *State, id string) (fooddata.Record, bool, error) {
	if rec, ok := st.Food(id); ok {
		return rec, false, nil
	}
	if provider == nil {
		return fooddata.Record{}, false, fmt.Errorf("food %s is not cached and no food provider is configured", id)
	}
	raw, err := provider.FetchDetail(ctx, id)
	if err != nil {
		return fooddata.Record{}, false, fmt.Errorf("fetch food %s: %w", id, err)
	}
	rec, err := st.PutFood(id, raw)
	if err != nil {
		return fooddata.Record{}, false, fmt.Errorf("cache food %s: %w", id, err)
	}
	return rec, true, nil
}
