package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/model"
)

// ProductClient talks to /api/products. It is the remote variant of the
// catalog persistence: no retry and no timeout beyond what the caller's
// context imposes.
type ProductClient struct {
	http *HTTPClient
}

func NewProductClient(baseURL string) *ProductClient {
	return &ProductClient{http: NewHTTPClient(baseURL, 0)}
}

type messageBody struct {
	Message string `json:"message"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// check turns a non-2xx response into one of the apperr kinds.
func check(resp *Response[json.RawMessage], id string) error {
	if resp.IsSuccess() {
		return nil
	}
	var msg messageBody
	_ = json.Unmarshal(resp.RawBody, &msg)
	if msg.Message == "" {
		msg.Message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperr.NotFound("product", id)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", apperr.ErrAuth, msg.Message)
	case resp.IsClientError():
		return apperr.Validation(msg.Message)
	default:
		return apperr.Persistence(fmt.Errorf("status %d: %s", resp.StatusCode, msg.Message), "catalog api")
	}
}

func productPath(id string) string {
	return "/api/products/" + url.PathEscape(id)
}

func (c *ProductClient) GetAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	resp, err := c.http.Get(ctx, "/api/products", &products)
	if err != nil {
		return nil, apperr.Persistence(err, "list products")
	}
	if err := check(resp, ""); err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (c *ProductClient) Create(ctx context.Context, p model.Product) (model.Product, error) {
	var created model.Product
	resp, err := c.http.Post(ctx, "/api/products", p, &created)
	if err != nil {
		return model.Product{}, apperr.Persistence(err, "create product")
	}
	return created, check(resp, p.ID)
}

func (c *ProductClient) Update(ctx context.Context, id string, p model.Product) (model.Product, error) {
	var updated model.Product
	resp, err := c.http.Put(ctx, productPath(id), p, &updated)
	if err != nil {
		return model.Product{}, apperr.Persistence(err, "update product")
	}
	return updated, check(resp, id)
}

func (c *ProductClient) Delete(ctx context.Context, id string) error {
	resp, err := c.http.Delete(ctx, productPath(id), nil)
	if err != nil {
		return apperr.Persistence(err, "delete product")
	}
	return check(resp, id)
}

// Login exchanges the shared secret for an admin token and attaches it to
// every later request.
func (c *ProductClient) Login(ctx context.Context, secret string) error {
	var out sessionResponse
	resp, err := c.http.Post(ctx, "/api/session", map[string]string{"secret": secret}, &out)
	if err != nil {
		return apperr.Persistence(err, "login")
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return apperr.ErrAuth
	}
	if err := check(resp, ""); err != nil {
		return err
	}
	c.http.SetDefaultHeader("Authorization", "Bearer "+out.Token)
	return nil
}

func (c *ProductClient) Logout() {
	c.http.RemoveDefaultHeader("Authorization")
}
