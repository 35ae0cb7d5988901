// Package shipping computes per-customer carrier quotes and caches them by
// customer, keyed on the zip code they were computed for.
package shipping

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// NotAvailable is what an unquotable service serialises to.
const NotAvailable = "Not available"

type Method string

const (
	MethodPac        Method = "pac"
	MethodSedex      Method = "sedex"
	MethodDotPackage Method = "dotPackage"
	MethodDotCom     Method = "dotCom"
	MethodExpresso   Method = "expresso"
)

// Methods lists the named services in the carrier's positional order.
var Methods = []Method{MethodPac, MethodSedex, MethodDotPackage, MethodDotCom, MethodExpresso}

func (m Method) Valid() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// Price is either a carrier amount or the NotAvailable marker.
type Price struct {
	Amount    decimal.Decimal
	Available bool
}

func PriceOf(d decimal.Decimal) Price { return Price{Amount: d, Available: true} }

func Unavailable() Price { return Price{} }

func (p Price) String() string {
	if !p.Available {
		return NotAvailable
	}
	return p.Amount.String()
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Available {
		return json.Marshal(NotAvailable)
	}
	return []byte(p.Amount.String()), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = Unavailable()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == NotAvailable {
			*p = Unavailable()
			return nil
		}
		data = []byte(s)
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("shipping: invalid price %s: %w", data, err)
	}
	*p = PriceOf(d)
	return nil
}

// Outcome says how a Quote was produced. It is not serialised.
type Outcome string

const (
	OutcomeCached   Outcome = "cached"
	OutcomeFetched  Outcome = "fetched"
	OutcomeDegraded Outcome = "degraded"
)

type Quote struct {
	CustomerID string  `json:"customerId"`
	ZipCode    string  `json:"zipCode"`
	Pac        Price   `json:"pac"`
	Sedex      Price   `json:"sedex"`
	DotPackage Price   `json:"dotPackage"`
	DotCom     Price   `json:"dotCom"`
	Expresso   Price   `json:"expresso"`
	Outcome    Outcome `json:"-"`
}

// DegradedQuote is returned when the carrier could not be reached or refused
// the request: every service is NotAvailable.
func DegradedQuote(customerID, zipCode string) Quote {
	return Quote{
		CustomerID: customerID,
		ZipCode:    zipCode,
		Outcome:    OutcomeDegraded,
	}
}

func (q Quote) Degraded() bool { return q.Outcome == OutcomeDegraded }

func (q Quote) Price(m Method) (Price, bool) {
	switch m {
	case MethodPac:
		return q.Pac, true
	case MethodSedex:
		return q.Sedex, true
	case MethodDotPackage:
		return q.DotPackage, true
	case MethodDotCom:
		return q.DotCom, true
	case MethodExpresso:
		return q.Expresso, true
	}
	return Price{}, false
}

func (q *Quote) setPrice(m Method, p Price) {
	switch m {
	case MethodPac:
		q.Pac = p
	case MethodSedex:
		q.Sedex = p
	case MethodDotPackage:
		q.DotPackage = p
	case MethodDotCom:
		q.DotCom = p
	case MethodExpresso:
		q.Expresso = p
	}
}
