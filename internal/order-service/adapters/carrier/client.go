// Package carrier talks to the external carrier-rate service (Melhor Envio
// shipment calculate API). It makes exactly one attempt per call.
package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

const calculatePath = "/api/v2/me/shipment/calculate"

// Services is the fixed, ordered list of carrier services requested on every
// quote: PAC, SEDEX, .Package, .Com and Expresso.
var Services = []int{1, 2, 3, 4, 5}

// Package is the shipment profile sent with every quote request.
type Package struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Weight float64 `json:"weight"`
}

// Rate is one positional entry of the carrier response. Price is invalid when
// the carrier could not quote that service.
type Rate struct {
	ID           int
	Name         string
	Price        decimal.NullDecimal
	DeliveryTime int
	Error        string
}

type Config struct {
	BaseURL     string
	AccessToken string
	UserAgent   string
	Package     Package
}

type Client struct {
	httpClient *http.Client
	cfg        Config
}

func NewClient(httpClient *http.Client, cfg Config) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{httpClient: httpClient, cfg: cfg}
}

type postalCode struct {
	PostalCode string `json:"postal_code"`
}

type calculateRequest struct {
	From     postalCode `json:"from"`
	To       postalCode `json:"to"`
	Package  Package    `json:"package"`
	Services string     `json:"services"`
}

type serviceQuote struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Price        json.RawMessage `json:"price,omitempty"`
	DeliveryTime int             `json:"delivery_time,omitempty"`
	Error        string          `json:"error,omitempty"`
	Company      json.RawMessage `json:"company,omitempty"`
}

// GetRates quotes the configured package from originZip to destinationZip.
// The result is positional, in the order of Services.
func (c *Client) GetRates(ctx context.Context, originZip, destinationZip string) ([]Rate, error) {
	body, err := json.Marshal(calculateRequest{
		From:     postalCode{PostalCode: originZip},
		To:       postalCode{PostalCode: destinationZip},
		Package:  c.cfg.Package,
		Services: joinServices(Services),
	})
	if err != nil {
		return nil, fmt.Errorf("carrier: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+calculatePath, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{StatusCode: resp.StatusCode, Status: statusText(resp)}
	}

	var quotes []serviceQuote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, &Error{Err: fmt.Errorf("decode response: %w", err)}
	}

	rates := make([]Rate, len(quotes))
	for i, q := range quotes {
		rates[i] = Rate{
			ID:           q.ID,
			Name:         q.Name,
			DeliveryTime: q.DeliveryTime,
			Error:        q.Error,
		}
		price, err := parsePrice(q.Price)
		if err != nil {
			return nil, &Error{Err: fmt.Errorf("service %d: %w", q.ID, err)}
		}
		rates[i].Price = price
	}
	return rates, nil
}

// parsePrice accepts a decimal string or a bare JSON number. Absent, null and
// empty prices are invalid rather than an error.
func parsePrice(raw json.RawMessage) (decimal.NullDecimal, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return decimal.NullDecimal{}, nil
	}
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.NullDecimal{}, fmt.Errorf("parse price %s: %w", raw, err)
		}
		if text == "" {
			return decimal.NullDecimal{}, nil
		}
	}
	price, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("parse price %q: %w", text, err)
	}
	return decimal.NewNullDecimal(price), nil
}

func joinServices(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}

// statusText returns the reason phrase without the numeric prefix.
func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
