package forms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL  = "https://api.typeform.com"
	defaultPageSize = 200
	requestTimeout  = 15 * time.Second
)

// Provider creates API clients bound to a resolved key.
type Provider struct {
	baseURL string
	base    *http.Client
}

type ProviderOption func(*Provider)

// WithHTTPClient sets the transport the bearer token is layered on.
func WithHTTPClient(c *http.Client) ProviderOption {
	return func(p *Provider) {
		p.base = c
	}
}

func NewProvider(baseURL string, options ...ProviderOption) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	p := &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		base:    &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Client returns a client that authenticates with apiKey.
func (p *Provider) Client(apiKey string) *Client {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, p.base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
	return &Client{baseURL: p.baseURL, httpClient: oauth2.NewClient(ctx, src)}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func (c *Client) ListForms(ctx context.Context) (FormList, error) {
	var list FormList
	q := url.Values{"page_size": {strconv.Itoa(defaultPageSize)}}
	if err := c.get(ctx, "/forms", q, &list); err != nil {
		return FormList{}, errors.Wrap(err, "[ListForms]")
	}
	if list.Items == nil {
		list.Items = []Form{}
	}
	return list, nil
}

func (c *Client) Responses(ctx context.Context, formID string, pageSize int) (ResponseList, error) {
	if formID == "" {
		return ResponseList{}, fmt.Errorf("%w: form id is required", apperrors.ErrInvalidRequest)
	}
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = defaultPageSize
	}
	var list ResponseList
	q := url.Values{"page_size": {strconv.Itoa(pageSize)}}
	if err := c.get(ctx, "/forms/"+url.PathEscape(formID)+"/responses", q, &list); err != nil {
		return ResponseList{}, errors.Wrap(err, "[Responses]")
	}
	if list.Items == nil {
		list.Items = []Response{}
	}
	return list, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.ErrNotFound
	case resp.StatusCode >= 300:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return fmt.Errorf("%w: %s returned %d", apperrors.ErrUpstream, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", apperrors.ErrUpstream, path, err)
	}
	return nil
}
