package batch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// pgValue converts a canonical string value into the Go value pgx should bind
// for the column's storage type. Blank always binds NULL regardless of type.
func pgValue(t domain.AttributeType, raw string) (any, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}

	switch t {
	case domain.AttributeTypeInteger:
		n, err := strconv.ParseInt(strings.TrimSuffix(s, ".0"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", raw)
		}
		return n, nil
	case domain.AttributeTypeDecimal:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("not a decimal: %q", raw)
		}
		return d.String(), nil
	case domain.AttributeTypeDate:
		dt, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("not a date: %q", raw)
		}
		return dt, nil
	case domain.AttributeTypeBoolean:
		switch strings.ToLower(s) {
		case "true", "t", "1", "yes":
			return true, nil
		case "false", "f", "0", "no":
			return false, nil
		}
		return nil, fmt.Errorf("not a boolean: %q", raw)
	default:
		return s, nil
	}
}
