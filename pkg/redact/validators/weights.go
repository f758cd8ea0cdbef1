package validators

// Weights holds every tunable scoring constant used by the validators.
// The default values were chosen empirically; keeping them in one struct
// lets callers tune detection without touching validator logic.
type Weights struct {
	// Tax-ID (RUT)
	RUTBase             float64 // multiplier applied to the context score
	RUTContextStart     float64 // starting context score
	RUTKeywordBonus     float64 // proximity keyword in context
	RUTCanonicalBonus   float64 // "RUT: 12.345.678-9" style match in context
	RUTShortContext     float64 // scale when the context window is short
	RUTChecksumMismatch float64 // confidence on check-digit mismatch
	RUTRangeReject      float64 // confidence on out-of-range body
	RUTTestValue        float64 // confidence for denylisted placeholder IDs

	// Currency-indexed unit (UF)
	UFBase         float64
	UFKeywordBonus float64 // strong monetary keyword in context
	UFParseReject  float64 // confidence on parse failure
	UFExtremeValue float64 // confidence for out-of-range values

	// Monetary amounts
	MoneyContextStart  float64 // starting monetary-context score
	MoneyPositiveBonus float64 // positive indicator in context
	MoneyHedgeScale    float64 // hedging indicator in context
	MoneyBillionScale  float64 // scale for amounts over one billion
	MoneyCLPBase       float64 // "$ 1.000.000"
	MoneyUSDBase       float64 // "US$ 500" / "USD 500"
	MoneyTextualBase   float64 // "500 pesos", "1.000 dólares"
	MoneyEURBase       float64 // "€ 100"

	// Email
	EmailBase         float64
	EmailGovBonus     float64 // government/judicial domain
	EmailGenericScale float64 // generic TLD
	EmailLocalScale   float64 // generic local part
	EmailPersonal     float64 // personal-looking local part

	// Phone
	PhoneContextStart float64
	PhoneKeywordBonus float64
	PhoneContextFloor float64
	PhoneMobileBase   float64
	PhoneSantiagoBase float64
	PhoneRegionalBase float64

	// Address heuristics, ordered strongest shape first
	AddressPrefixedStreetBase float64 // "Avenida Providencia 2653"
	AddressStreetComunaBase   float64 // "Moneda 975, Santiago"
	AddressUnitSuffixBase     float64 // "1234 depto 56"
}

// DefaultWeights returns the scoring constants the system ships with.
func DefaultWeights() Weights {
	return Weights{
		RUTBase:             0.95,
		RUTContextStart:     0.5,
		RUTKeywordBonus:     0.3,
		RUTCanonicalBonus:   0.2,
		RUTShortContext:     0.8,
		RUTChecksumMismatch: 0.3,
		RUTRangeReject:      0.4,
		RUTTestValue:        0.2,

		UFBase:         0.7,
		UFKeywordBonus: 0.2,
		UFParseReject:  0.2,
		UFExtremeValue: 0.3,

		MoneyContextStart:  0.5,
		MoneyPositiveBonus: 0.2,
		MoneyHedgeScale:    0.7,
		MoneyBillionScale:  0.5,
		MoneyCLPBase:       0.9,
		MoneyUSDBase:       0.85,
		MoneyTextualBase:   0.8,
		MoneyEURBase:       0.75,

		EmailBase:         0.6,
		EmailGovBonus:     0.4,
		EmailGenericScale: 0.7,
		EmailLocalScale:   0.6,
		EmailPersonal:     0.1,

		PhoneContextStart: 0.7,
		PhoneKeywordBonus: 0.3,
		PhoneContextFloor: 0.5,
		PhoneMobileBase:   0.9,
		PhoneSantiagoBase: 0.85,
		PhoneRegionalBase: 0.8,

		AddressPrefixedStreetBase: 0.85,
		AddressStreetComunaBase:   0.8,
		AddressUnitSuffixBase:     0.75,
	}
}
