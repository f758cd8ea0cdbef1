// Package validators implements the jurisdiction-specific data validators
// used by the scan engine: each category combines a structural check with a
// contextual confidence heuristic. Validators are pure given their inputs and
// safe to memoize by (category, rawText).
package validators

import (
	"github.com/sirupsen/logrus"
)

// Category identifies one of the supported sensitive-data categories.
// The set is closed: Validate dispatches with an exhaustive switch so adding
// a category is a compile-time-checked extension.
type Category int

const (
	CategoryTaxID Category = iota
	CategoryIndexedUnit
	CategoryMonetary
	CategoryEmail
	CategoryPhone
	CategoryAddress
)

func (c Category) String() string {
	switch c {
	case CategoryTaxID:
		return "tax_id"
	case CategoryIndexedUnit:
		return "indexed_unit"
	case CategoryMonetary:
		return "monetary"
	case CategoryEmail:
		return "email"
	case CategoryPhone:
		return "phone"
	case CategoryAddress:
		return "address"
	}
	return "unknown"
}

// Flags attached to validation results.
const (
	FlagTestValue    = "TEST_VALUE"
	FlagExtremeValue = "EXTREME_VALUE"
)

// Domain classes reported by the email validator.
const (
	DomainGubernamental = "GUBERNAMENTAL"
	DomainChileno       = "CHILENO"
	DomainJuridico      = "JURIDICO"
	DomainGenerico      = "GENERICO"
)

// Phone classes reported by the phone validator.
const (
	PhoneMobile   = "MOVIL"
	PhoneSantiago = "FIJO_SANTIAGO"
	PhoneRegional = "FIJO_REGIONAL"
)

// Result is the outcome of validating one candidate string.
// Confidence is always within [0,1]; Valid=false still carries a confidence
// reflecting rejection strength.
type Result struct {
	Valid      bool     `json:"valid"`
	Confidence float64  `json:"confidence"`
	Category   Category `json:"category"`
	Normalized string   `json:"normalized,omitempty"`
	Value      float64  `json:"value,omitempty"`
	Class      string   `json:"class,omitempty"`
	Flags      []string `json:"flags,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}

// HasFlag reports whether the result carries the given flag.
func (r Result) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Set bundles all validators behind a single entry point with shared weights
// and a memoization cache.
type Set struct {
	weights Weights
	cache   *Cache
	logger  *logrus.Logger
}

// NewSet creates a validator set. A nil logger falls back to a JSON-formatted
// default, matching service logging elsewhere.
func NewSet(weights Weights, logger *logrus.Logger) *Set {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Set{
		weights: weights,
		cache:   NewCache(defaultCacheSize),
		logger:  logger,
	}
}

// Validate runs the validator for the given category.
//
// The cache key deliberately excludes the surrounding context: for repeated
// identical matches the first context seen determines the cached confidence.
// This trades a little accuracy for not re-scoring every occurrence of the
// same string across a large document.
func (s *Set) Validate(category Category, raw, context string) Result {
	if cached, ok := s.cache.Get(category, raw); ok {
		return cached
	}

	var res Result
	switch category {
	case CategoryTaxID:
		res = s.validateTaxID(raw, context)
	case CategoryIndexedUnit:
		res = s.validateIndexedUnit(raw, context)
	case CategoryMonetary:
		res = s.validateMonetary(raw, context)
	case CategoryEmail:
		res = s.validateEmail(raw, context)
	case CategoryPhone:
		res = s.validatePhone(raw, context)
	case CategoryAddress:
		res = s.validateAddress(raw, context)
	default:
		res = Result{Valid: false, Confidence: 0, Category: category, Reason: "unknown category"}
	}

	res.Category = category
	res.Confidence = clamp01(res.Confidence)
	s.cache.Put(category, raw, res)
	return res
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
