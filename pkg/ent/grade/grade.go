// Package grade normalizes grade levels and resolves missing grades through
// an ordered chain of sources.
package grade

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Special grade levels below the first grade.
const (
	Kindergarten = 0
	Transitional = -1
	Preschool    = -2
)

// Bounds of valid grade levels.
const (
	Min = Preschool
	Max = 12
)

var (
	// ErrMissing is returned for blank grade values.
	ErrMissing = errors.New("grade is missing")

	// ErrUnparseable is returned when a value cannot be interpreted as a
	// grade level.
	ErrUnparseable = errors.New("grade cannot be parsed")
)

var words = map[string]int{
	"K":         Kindergarten,
	"TK":        Transitional,
	"PS":        Preschool,
	"PRESCHOOL": Preschool,
}

// Normalize converts a raw grade value to an integer grade level. Words are
// matched after removing case, spaces and dashes, so "T-K" and "t k" are
// both transitional kindergarten. Numbers like "5.0" are truncated to
// integers. Values outside of Min..Max are unparseable.
func Normalize(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrMissing
	}

	key := strings.ToUpper(s)
	key = strings.NewReplacer(" ", "", "-", "").Replace(key)
	if g, ok := words[key]; ok {
		return g, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrUnparseable
	}
	g := int(math.Trunc(f))
	if g < Min || g > Max {
		return 0, ErrUnparseable
	}
	return g, nil
}

// String formats a grade level the way it is written in the spreadsheets.
func String(g int) string {
	switch g {
	case Kindergarten:
		return "K"
	case Transitional:
		return "TK"
	case Preschool:
		return "PS"
	default:
		return strconv.Itoa(g)
	}
}
