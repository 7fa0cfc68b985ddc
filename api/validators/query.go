package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter bounded to [min, max].
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be an integer", key)).
			WithDetails(map[string]any{"field": key, "value": raw})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be between %d and %d", key, min, max)).
			WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}
