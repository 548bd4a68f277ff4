package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Offset int
}

// Normalize enforces the configured default and maximum limits and
// clamps negative offsets to zero.
func Normalize(params Params) Params {
	params.Limit = NormalizeLimit(params.Limit)
	if params.Offset < 0 {
		params.Offset = 0
	}
	return params
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Page slices one page out of a fully materialized result set. Used by
// listings that sort in memory, where the database cannot apply
// limit/offset before the final order is known.
func Page[T any](items []T, params Params) []T {
	params = Normalize(params)
	start := params.Offset
	if start > len(items) {
		start = len(items)
	}
	end := start + params.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
