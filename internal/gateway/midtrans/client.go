package midtrans

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// APIError is a charge/status call the gateway answered but did not accept.
// StatusCode is the gateway's application-level code, which is independent of
// the HTTP status.
type APIError struct {
	HTTPStatus int
	StatusCode string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("midtrans: status_code=%s http=%d: %s", e.StatusCode, e.HTTPStatus, e.Message)
}

// Client talks to the Midtrans Core API. Inject one configured instance;
// never construct throwaway clients per call.
type Client struct {
	serverKey  string
	clientKey  string
	production bool
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(serverKey, clientKey string, production bool) *Client {
	return &Client{
		serverKey:  serverKey,
		clientKey:  clientKey,
		production: production,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
}

func (c *Client) SetLogger(logger *slog.Logger) { c.logger = logger }

func (c *Client) baseURL() string {
	if c.production {
		return "https://api.midtrans.com"
	}
	return "https://api.sandbox.midtrans.com"
}

// Charge creates a transaction synchronously. Accepted application codes are
// 200 (approved) and 201 (pending / challenge); anything else is an APIError.
func (c *Client) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	var resp ChargeResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL()+"/v2/charge", req, &resp); err != nil {
		return nil, err
	}
	if resp.StatusCode != "200" && resp.StatusCode != "201" {
		return nil, &APIError{HTTPStatus: http.StatusOK, StatusCode: resp.StatusCode, Message: resp.StatusMessage}
	}
	return &resp, nil
}

// TransactionStatus queries the gateway's authoritative view of an order.
func (c *Client) TransactionStatus(ctx context.Context, orderID string) (*ChargeResponse, error) {
	endpoint := c.baseURL() + "/v2/" + url.PathEscape(orderID) + "/status"
	var resp ChargeResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if resp.StatusCode != "200" {
		return nil, &APIError{HTTPStatus: http.StatusOK, StatusCode: resp.StatusCode, Message: resp.StatusMessage}
	}
	return &resp, nil
}

// CardToken exchanges raw card data for a one-time token. Tokenization is
// authenticated with the client key, not the server key.
func (c *Client) CardToken(ctx context.Context, req *CardTokenRequest) (*CardTokenResponse, error) {
	q := url.Values{}
	q.Set("client_key", c.clientKey)
	q.Set("card_number", req.CardNumber)
	q.Set("card_exp_month", req.CardExpMonth)
	q.Set("card_exp_year", req.CardExpYear)
	q.Set("card_cvv", req.CardCVV)

	var resp CardTokenResponse
	if err := c.do(ctx, http.MethodGet, c.baseURL()+"/v2/token?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.StatusCode != "200" {
		return nil, &APIError{HTTPStatus: http.StatusOK, StatusCode: resp.StatusCode, Message: resp.StatusMessage}
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, buf)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.serverKey, "")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		// The gateway still sends its envelope on errors; surface its message
		// when it parses.
		var ge ChargeResponse
		if json.Unmarshal(raw, &ge) == nil && ge.StatusMessage != "" {
			return &APIError{HTTPStatus: resp.StatusCode, StatusCode: ge.StatusCode, Message: ge.StatusMessage}
		}
		return &APIError{HTTPStatus: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Error("midtrans response decode failed", "endpoint", endpoint, "err", err)
		return err
	}
	return nil
}
