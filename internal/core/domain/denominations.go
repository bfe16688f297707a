package domain

// DenominationSet maps a currency to its physical denominations in cents,
// ordered largest to smallest. The greedy change breakdown assumes each list
// forms a canonical system (1/2/5/10 pattern) where greedy allocation is
// optimal; that is a precondition on store configuration, not something the
// calculator proves.
type DenominationSet map[Currency][]int64

// DefaultDenominations returns the circulating USD and VES note/coin sets.
func DefaultDenominations() DenominationSet {
	return DenominationSet{
		CurrencyStrong: {10000, 5000, 2000, 1000, 500, 100, 25, 10, 5, 1},
		CurrencyLocal:  {20000, 10000, 5000, 2000, 1000, 500, 100, 50, 25},
	}
}

// For returns the ordered denominations for a currency; nil when the currency
// has no configured set.
func (d DenominationSet) For(currency Currency) []int64 {
	return d[currency]
}
