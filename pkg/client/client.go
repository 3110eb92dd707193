// Package client talks to the receipt tracker dashboard API on behalf of one
// user session.
package client

import (
	"Receipt-Tracker/domain"
	"Receipt-Tracker/internal/api/presenters"
	"Receipt-Tracker/pkg/session"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a client for baseURL. The session may be nil when every call
// carries one in its context.
func New(baseURL string, s *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		session:    s,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) sessionFor(ctx context.Context) (*session.Session, error) {
	if s, ok := session.FromContext(ctx); ok {
		return s, nil
	}
	if c.session != nil {
		return c.session, nil
	}
	return nil, errors.New("client has no session")
}

// Login exchanges Telegram launch data for an access token and stores it in the
// session.
func (c *Client) Login(ctx context.Context, initData string) (domain.UserDataResponse, error) {
	s, err := c.sessionFor(ctx)
	if err != nil {
		return domain.UserDataResponse{}, err
	}

	var res domain.UserDataResponse
	if err := c.do(ctx, http.MethodPost, "/api/user-data", "", domain.UserDataRequest{UserData: initData}, &res); err != nil {
		return domain.UserDataResponse{}, err
	}
	if err := s.Set(ctx, res.AccessToken); err != nil {
		return domain.UserDataResponse{}, fmt.Errorf("store token: %w", err)
	}
	return res, nil
}

func (c *Client) Logout(ctx context.Context) error {
	s, err := c.sessionFor(ctx)
	if err != nil {
		return err
	}
	return s.Clear(ctx)
}

func (c *Client) Receipts(ctx context.Context, filter domain.ReceiptFilter) ([]domain.ReceiptResponse, error) {
	query := url.Values{}
	for key, value := range map[string]string{
		"status": filter.Status,
		"store":  filter.Store,
		"q":      filter.Query,
		"date":   filter.Date,
	} {
		if value != "" {
			query.Set(key, value)
		}
	}
	path := "/api/receipts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var res domain.ReceiptsResponse
	if err := c.authorized(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Receipts, nil
}

func (c *Client) Receipt(ctx context.Context, id string) (domain.ReceiptResponse, error) {
	var res domain.ReceiptResponse
	if err := c.authorized(ctx, http.MethodGet, "/api/receipts/"+url.PathEscape(id), nil, &res); err != nil {
		return domain.ReceiptResponse{}, err
	}
	return res, nil
}

func (c *Client) Confirm(ctx context.Context, id string, req domain.ConfirmReceiptRequest) (domain.ConfirmReceiptResponse, error) {
	var res domain.ConfirmReceiptResponse
	if err := c.authorized(ctx, http.MethodPost, "/api/receipts/"+url.PathEscape(id), req, &res); err != nil {
		return domain.ConfirmReceiptResponse{}, err
	}
	return res, nil
}

// authorized sends the request with the session token. A 401 drops the stored
// token and surfaces session.ErrNoToken so the caller logs in again.
func (c *Client) authorized(ctx context.Context, method, path string, body, out interface{}) error {
	s, err := c.sessionFor(ctx)
	if err != nil {
		return err
	}
	token, err := s.Get(ctx)
	if err != nil {
		return err
	}

	err = c.do(ctx, method, path, token, body, out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		_ = s.Clear(ctx)
		return fmt.Errorf("%w: %s", session.ErrNoToken, apiErr.Message)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var errBody presenters.ErrorBody
		message := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &errBody) == nil && errBody.Error != "" {
			message = errBody.Error
		}
		return &APIError{StatusCode: res.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// StageEdits turns a fetched receipt into a confirm request carrying the same
// values, ready for the caller to modify.
func StageEdits(r domain.ReceiptResponse) domain.ConfirmReceiptRequest {
	items := make([]domain.ConfirmItemRequest, 0, len(r.ReceiptItems))
	for _, item := range r.ReceiptItems {
		items = append(items, domain.ConfirmItemRequest{
			ID:            item.ID,
			Name:          item.Name,
			Qty:           item.Qty,
			Price:         item.Price,
			DiscountType:  item.DiscountType,
			DiscountValue: item.DiscountValue,
			VoucherAmount: item.VoucherAmount,
			Category:      item.Category,
			TotalPrice:    item.TotalPrice,
		})
	}
	return domain.ConfirmReceiptRequest{
		StoreName:       r.StoreName,
		TotalAmount:     r.TotalAmount,
		TransactionDate: r.TransactionDate,
		ReceiptItems:    items,
		EditedFields:    []string{},
	}
}
