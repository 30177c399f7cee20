package usecase

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// KeyNormalizer maps a natural key to the form used for joining. Both sides
// of a join go through the same normalizer.
type KeyNormalizer interface {
	Name() string
	Normalize(key string) string
}

const (
	NormalizerExact      = "exact"
	NormalizerCasefold   = "casefold"
	NormalizerAccentfold = "accentfold"
	NormalizerTokenset   = "tokenset"
)

func ParseKeyNormalizer(raw string) (KeyNormalizer, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", NormalizerExact:
		return exactNormalizer{}, nil
	case NormalizerCasefold:
		return casefoldNormalizer{}, nil
	case NormalizerAccentfold:
		return accentfoldNormalizer{}, nil
	case NormalizerTokenset:
		return tokensetNormalizer{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown key normalizer %q", ErrInvalidInput, raw)
	}
}

type exactNormalizer struct{}

func (exactNormalizer) Name() string { return NormalizerExact }

func (exactNormalizer) Normalize(key string) string { return key }

// casefoldNormalizer folds case and collapses runs of whitespace.
type casefoldNormalizer struct{}

func (casefoldNormalizer) Name() string { return NormalizerCasefold }

func (casefoldNormalizer) Normalize(key string) string {
	return cases.Fold().String(strings.Join(strings.Fields(key), " "))
}

// accentfoldNormalizer additionally strips combining marks: "Pérez" == "perez".
type accentfoldNormalizer struct{}

func (accentfoldNormalizer) Name() string { return NormalizerAccentfold }

func (accentfoldNormalizer) Normalize(key string) string {
	return casefoldNormalizer{}.Normalize(stripAccents(key))
}

// tokensetNormalizer treats a key as an unordered set of words so that
// "Pérez, Juan" matches "Juan Perez".
type tokensetNormalizer struct{}

func (tokensetNormalizer) Name() string { return NormalizerTokenset }

func (tokensetNormalizer) Normalize(key string) string {
	folded := accentfoldNormalizer{}.Normalize(key)
	tokens := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
