package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ResultSuccess is the value of the "result" field on a successful response.
const ResultSuccess = "success"

// RateQuery describes a single latest-rates request.
type RateQuery struct {
	Base    string
	Timeout time.Duration
	Retries int
}

// RawRate is one entry of the conversion_rates object, value left undecoded.
type RawRate struct {
	Currency string
	Value    json.RawMessage
}

// RawRateResponse is the exchangerate-api v6 "latest" payload. Rates keeps
// the order in which currencies appear in the document.
type RawRateResponse struct {
	Result             string
	ErrorType          string
	BaseCode           string
	TimeLastUpdateUnix int64
	TimeLastUpdateUTC  string
	Rates              []RawRate
}

type rawRateResponseJSON struct {
	Result             string          `json:"result"`
	ErrorType          string          `json:"error-type"`
	BaseCode           string          `json:"base_code"`
	TimeLastUpdateUnix int64           `json:"time_last_update_unix"`
	TimeLastUpdateUTC  string          `json:"time_last_update_utc"`
	ConversionRates    json.RawMessage `json:"conversion_rates"`
}

func (r *RawRateResponse) UnmarshalJSON(b []byte) error {
	var aux rawRateResponseJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	rates, err := decodeOrderedRates(aux.ConversionRates)
	if err != nil {
		return err
	}
	*r = RawRateResponse{
		Result:             aux.Result,
		ErrorType:          aux.ErrorType,
		BaseCode:           aux.BaseCode,
		TimeLastUpdateUnix: aux.TimeLastUpdateUnix,
		TimeLastUpdateUTC:  aux.TimeLastUpdateUTC,
		Rates:              rates,
	}
	return nil
}

// LastUpdate returns the provider's last update time, zero if unknown.
func (r RawRateResponse) LastUpdate() time.Time {
	if r.TimeLastUpdateUnix > 0 {
		return time.Unix(r.TimeLastUpdateUnix, 0).UTC()
	}
	return time.Time{}
}

// decodeOrderedRates walks the object token by token. A repeated key keeps
// its first position and takes the last value, like encoding/json does. A
// value that is not an object carries no rates and decodes to nil.
func decodeOrderedRates(raw json.RawMessage) ([]RawRate, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil
	}

	var out []RawRate
	seen := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("conversion_rates: unexpected token %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("conversion_rates[%s]: %w", key, err)
		}
		if i, dup := seen[key]; dup {
			out[i].Value = v
			continue
		}
		seen[key] = len(out)
		out = append(out, RawRate{Currency: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}
