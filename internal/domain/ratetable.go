package domain

import (
	"cmp"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RatePrecision is the number of decimal places kept on every rate.
const RatePrecision = 4

type RateRecord struct {
	Currency string
	Rate     float64
}

// RateTable is an ordered, read-only sequence of records, highest rate first.
type RateTable struct {
	records []RateRecord
}

func (t RateTable) Len() int { return len(t.records) }

// Records returns a copy of the table rows.
func (t RateTable) Records() []RateRecord { return slices.Clone(t.records) }

// Head returns up to n leading rows.
func (t RateTable) Head(n int) []RateRecord {
	if n > len(t.records) {
		n = len(t.records)
	}
	if n < 0 {
		n = 0
	}
	return slices.Clone(t.records[:n])
}

// BuildRateTable coerces, rounds and sorts the rates of a response. Entries
// whose value does not coerce to a finite number are left out; every other
// entry is kept, zero and negative values included. Rates are rounded half to
// even and ordered by rate descending; equal rates keep payload order.
func BuildRateTable(raw RawRateResponse) RateTable {
	records := make([]RateRecord, 0, len(raw.Rates))
	for _, r := range raw.Rates {
		v, ok := coerceRate(r.Value)
		if !ok {
			continue
		}
		records = append(records, RateRecord{Currency: r.Currency, Rate: roundRate(v)})
	}
	slices.SortStableFunc(records, func(a, b RateRecord) int {
		return cmp.Compare(b.Rate, a.Rate)
	})
	return RateTable{records: records}
}

func coerceRate(v json.RawMessage) (float64, bool) {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return 0, false
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(v, &str); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(str)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func roundRate(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).RoundBank(RatePrecision).Float64()
	return f
}
