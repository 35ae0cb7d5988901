// Package inventory is the HTTP client for the external product/inventory
// service. Both operations are single batch round-trips with no retries.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/orders-service/internal/order-service/domain"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

type productDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int    `json:"stock"`
}

type productsResponse struct {
	List []productDTO `json:"list"`
}

type stockEntryDTO struct {
	ProductID   string `json:"productId"`
	Quantity    int    `json:"quantity"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

type updateStockRequest struct {
	Products []stockEntryDTO `json:"products"`
}

// GetProducts fetches the given products in one call. The service silently
// omits unknown ids, so the result may be shorter than productIDs.
func (c *Client) GetProducts(ctx context.Context, productIDs []string) ([]domain.Product, error) {
	q := url.Values{}
	q.Set("productIds", strings.Join(productIDs, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products?"+q.Encode(), nil)
	if err != nil {
		return nil, &Error{Op: OpGetProducts, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: OpGetProducts, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: OpGetProducts, StatusCode: resp.StatusCode}
	}

	var body productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &Error{Op: OpGetProducts, Err: fmt.Errorf("decode response: %w", err)}
	}

	products := make([]domain.Product, 0, len(body.List))
	for _, p := range body.List {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, &Error{Op: OpGetProducts, Err: fmt.Errorf("product %s: parse price %q: %w", p.ID, p.Price, err)}
		}
		products = append(products, domain.Product{
			ID:    p.ID,
			Name:  p.Name,
			Price: price,
			Stock: p.Stock,
		})
	}
	return products, nil
}

// UpdateStock applies all movements in a single batch; the remote service
// either accepts the whole batch or none of it.
func (c *Client) UpdateStock(ctx context.Context, movements []domain.StockMovement) error {
	entries := make([]stockEntryDTO, len(movements))
	for i, m := range movements {
		entries[i] = stockEntryDTO{
			ProductID:   m.ProductID,
			Quantity:    m.Quantity,
			Action:      string(m.Action),
			Description: m.Description,
		}
	}

	body, err := json.Marshal(updateStockRequest{Products: entries})
	if err != nil {
		return fmt.Errorf("inventory: encode stock update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/products/stock", bytes.NewReader(body))
	if err != nil {
		return &Error{Op: OpUpdateStock, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: OpUpdateStock, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: OpUpdateStock, StatusCode: resp.StatusCode}
	}
	return nil
}
