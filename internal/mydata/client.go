// Package mydata implements a client for the AADE myDATA RequestDocs API.
//
// The API returns namespaced XML pages of invoice documents for a date
// range, paginated through a continuation token. The client fetches pages
// one at a time and hands each to the page parser, so a full response set
// is never materialized as raw XML in memory.
//
// Required Environment Variables (consumed by internal/config):
//   - MYDATA_USER_ID: the aade-user-id request header
//   - MYDATA_API_KEY: the Ocp-Apim-Subscription-Key request header
//   - MYDATA_API_URL: endpoint override, defaults to production RequestDocs
package mydata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"mydata-tools/internal/logger"
	"mydata-tools/pkg/models"
)

// wireDateLayout is the DD/MM/YYYY form the RequestDocs query expects.
const wireDateLayout = "02/01/2006"

// DefaultTimeout bounds each individual page request.
const DefaultTimeout = 30 * time.Second

// Credentials are the two static fields attached to every request.
type Credentials struct {
	UserID          string // aade-user-id header
	SubscriptionKey string // Ocp-Apim-Subscription-Key header
}

// Query selects the invoice documents to fetch.
type Query struct {
	// DateFrom and DateTo bound the issue date range, inclusive.
	DateFrom time.Time
	DateTo   time.Time

	// ReceiverVAT optionally restricts results to documents issued to
	// this counterparty. Empty fetches all.
	ReceiverVAT string
}

// FetchResult accumulates the outcome of a paginated fetch.
type FetchResult struct {
	Records []models.InvoiceRecord // All parsed line items, in arrival order
	Pages   int                    // Pages successfully fetched and parsed
	Skipped int                    // Line items dropped by the parser
}

// Client talks to the myDATA RequestDocs endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      Credentials
	log        zerolog.Logger
}

// Option allows for customization of the client.
type Option func(*Client)

// WithHTTPClient allows custom HTTP client configuration.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the RequestDocs endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a RequestDocs client for the given credentials.
func NewClient(creds Credentials, options ...Option) (*Client, error) {
	if creds.UserID == "" || creds.SubscriptionKey == "" {
		return nil, ErrMissingCredentials
	}

	client := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    "https://mydatapi.aade.gr/myDATA/RequestDocs",
		creds:      creds,
		log:        logger.WithComponent("mydata-client"),
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// FetchInvoices fetches every page for the query and returns all parsed
// line items. Pagination stops when a page carries no usable continuation
// token.
//
// When a request fails mid-stream the loop terminates early: the result
// holds everything fetched so far and the error describes the failing
// page. A failure on the very first request returns a nil result.
func (c *Client) FetchInvoices(ctx context.Context, q Query) (*FetchResult, error) {
	const op = "FetchInvoices"

	c.log.Info().
		Str("date_from", q.DateFrom.Format(issueDateLayout)).
		Str("date_to", q.DateTo.Format(issueDateLayout)).
		Str("receiver_vat", q.ReceiverVAT).
		Msg("Fetching invoices")

	result := &FetchResult{}
	var token *ContinuationToken

	for pageNum := 1; ; pageNum++ {
		data, err := c.requestPage(ctx, q, token)
		if err != nil {
			wrapped := NewFetchError(op, pageNum, err, "")
			if pageNum == 1 {
				return nil, wrapped
			}
			c.log.Error().
				Err(err).
				Int("page", pageNum).
				Int("records", len(result.Records)).
				Msg("Page request failed, keeping pages fetched so far")
			return result, wrapped
		}

		page, err := ParsePage(data)
		if err != nil {
			wrapped := NewFetchError(op, pageNum, err, "")
			if pageNum == 1 {
				return nil, wrapped
			}
			c.log.Error().
				Err(err).
				Int("page", pageNum).
				Msg("Page parse failed, keeping pages fetched so far")
			return result, wrapped
		}

		result.Records = append(result.Records, page.Records...)
		result.Pages++
		result.Skipped += page.Skipped

		c.log.Info().
			Int("page", pageNum).
			Int("items", len(page.Records)).
			Int("skipped", page.Skipped).
			Msg("Fetched invoice page")

		if !page.HasMore() {
			break
		}
		token = page.Token
	}

	c.log.Info().
		Int("pages", result.Pages).
		Int("total_items", len(result.Records)).
		Int("skipped", result.Skipped).
		Msg("Invoice fetch completed")

	return result, nil
}

// requestPage issues one authenticated GET against the endpoint and returns
// the raw response body.
func (c *Client) requestPage(ctx context.Context, q Query, token *ContinuationToken) ([]byte, error) {
	params := url.Values{}
	params.Set("mark", "1")
	params.Set("dateFrom", q.DateFrom.Format(wireDateLayout))
	params.Set("dateTo", q.DateTo.Format(wireDateLayout))
	if q.ReceiverVAT != "" {
		params.Set("receiverVatNumber", q.ReceiverVAT)
	}
	if token.HasMore() {
		params.Set("nextPartitionKey", token.NextPartitionKey)
		params.Set("nextRowKey", token.NextRowKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("aade-user-id", c.creds.UserID)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.creds.SubscriptionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrRequestFailed, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d: %s", ErrAuthFailed, resp.StatusCode, excerpt(body))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, excerpt(body))
	}

	return body, nil
}

// excerpt trims a response body down to something loggable.
func excerpt(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
