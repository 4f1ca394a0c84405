package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TechnicalKeyPrefix marks storage columns owned by dynamically-added
// attributes. User-defined keys never carry the prefix themselves.
const TechnicalKeyPrefix = "x_"

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeLabel folds a display label to its ASCII slug: diacritics removed,
// lowercased, every run of non-alphanumeric characters collapsed to a single
// underscore, boundary underscores trimmed. Normalizing twice is idempotent.
func NormalizeLabel(label string) string {
	folded, _, err := transform.String(stripMarks, label)
	if err != nil {
		folded = label
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		// NFD does not decompose the Vietnamese crossed d.
		if r == 'đ' {
			r = 'd'
		}
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		} else {
			pendingSep = true
		}
	}
	return b.String()
}

// TechnicalKey derives the storage column name for a display label.
// Returns ErrInvalidLabel if the label normalizes to an empty slug.
func TechnicalKey(label string) (string, error) {
	slug := NormalizeLabel(label)
	if slug == "" {
		return "", ErrInvalidLabel
	}
	return TechnicalKeyPrefix + slug, nil
}

// IsDynamicKey reports whether a field key belongs to a dynamic attribute.
func IsDynamicKey(key string) bool {
	return strings.HasPrefix(key, TechnicalKeyPrefix)
}

// NormalizeValue renders a raw value in its canonical display form for
// storage comparison: blank or absent becomes the empty string, numbers lose
// their trailing ".0" (so "5.0" and "5" compare equal), booleans become
// "true"/"false". Unparseable input is returned trimmed; validation of
// imported cells is a separate concern.
func NormalizeValue(t AttributeType, raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}

	switch t {
	case AttributeTypeInteger, AttributeTypeDecimal:
		if d, err := decimal.NewFromString(v); err == nil {
			return d.String()
		}
		return strings.TrimSuffix(v, ".0")
	case AttributeTypeBoolean:
		switch strings.ToLower(v) {
		case "1", "t", "true", "yes":
			return "true"
		case "0", "f", "false", "no":
			return "false"
		}
		return v
	default:
		return v
	}
}

// ValidValue reports whether a non-blank raw value parses as the attribute's
// data type. Blank is always valid; required-field enforcement is separate.
func ValidValue(t AttributeType, raw string) bool {
	v := strings.TrimSpace(raw)
	if v == "" {
		return true
	}

	switch t {
	case AttributeTypeInteger:
		_, err := strconv.ParseInt(strings.TrimSuffix(v, ".0"), 10, 64)
		return err == nil
	case AttributeTypeDecimal:
		_, err := decimal.NewFromString(v)
		return err == nil
	case AttributeTypeDate:
		_, err := time.Parse("2006-01-02", v)
		return err == nil
	case AttributeTypeBoolean:
		switch strings.ToLower(v) {
		case "1", "t", "true", "yes", "0", "f", "false", "no":
			return true
		}
		return false
	default:
		return true
	}
}
