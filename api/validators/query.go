package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/dkurilenko/freshmart-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParseQueryInt reads an integer query parameter, falling back to
// defaultVal when absent and clamping into [min, max].
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+key).
			WithDetails(map[string]string{key: "must be an integer"})
	}
	if value < min {
		value = min
	}
	if value > max {
		value = max
	}
	return value, nil
}

// ParseQueryUUID reads an optional UUID query parameter.
func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+key).
			WithDetails(map[string]string{key: "must be a uuid"})
	}
	return &id, nil
}

// ParseQueryDecimal reads an optional decimal query parameter.
func ParseQueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+key).
			WithDetails(map[string]string{key: "must be a decimal number"})
	}
	return &value, nil
}

// ParsePathUUID parses a required path segment as a UUID.
func ParsePathUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).
			WithDetails(map[string]string{name: "must be a uuid"})
	}
	return id, nil
}
