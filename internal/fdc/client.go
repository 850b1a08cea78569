package fdc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"mealcheck/internal/fooddata"
	"mealcheck/internal/logging"
)

const (
	// DefaultBaseURL is the public FoodData Central API root.
	DefaultBaseURL = "https://api.nal.usda.gov/fdc"

	// MaxResults is how many search hits are shown to the user.
	MaxResults = 10

	maxErrorBody = 64 * 1024
)

// SearchDataTypes are the FDC datasets a search covers.
var SearchDataTypes = []string{"Foundation", "SR Legacy", "Survey (FNDDS)", "Branded"}

// Config configures a Client.
type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	PageSize          int
	RequestsPerSecond float64
	MaxRetries        int
	RetryBaseDelay    time.Duration
	HTTPClient        *http.Client
}

// Client talks to the FoodData Central REST API. It is safe for concurrent use.
type Client struct {
	apiKey         string
	baseURL        string
	pageSize       int
	maxRetries     int
	retryBaseDelay time.Duration
	http           *http.Client
	limiter        *rate.Limiter
	cb             *gobreaker.CircuitBreaker[[]byte]
}

// SearchResult is one food returned by Search.
type SearchResult struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	DataType    string `json:"data_type,omitempty"`
	BrandOwner  string `json:"brand_owner,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Meta joins the non-empty descriptive fields for display.
func (r SearchResult) Meta() string {
	var bits []string
	for _, s := range []string{r.DataType, r.BrandOwner, r.Category} {
		if s != "" {
			bits = append(bits, s)
		}
	}
	return strings.Join(bits, " • ")
}

// New builds a Client from cfg, filling defaults for unset fields.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("fdc api key is required (set fdc.api_key or MEALCHECK_FDC_API_KEY)")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 25
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		apiKey:         cfg.APIKey,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		pageSize:       cfg.PageSize,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		http:           httpClient,
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cb:             newBreaker("fdc-api"),
	}, nil
}

type searchRequest struct {
	Query      string   `json:"query"`
	PageSize   int      `json:"pageSize"`
	PageNumber int      `json:"pageNumber"`
	DataType   []string `json:"dataType"`
}

type searchResponse struct {
	Foods []struct {
		FdcID        any    `json:"fdcId"`
		Description  string `json:"description"`
		DataType     string `json:"dataType"`
		BrandOwner   string `json:"brandOwner"`
		FoodCategory any    `json:"foodCategory"`
	} `json:"foods"`
}

// Search returns up to MaxResults foods matching text.
func (c *Client) Search(ctx context.Context, text string) ([]SearchResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("search text is required")
	}
	body, err := json.Marshal(searchRequest{
		Query:      text,
		PageSize:   c.pageSize,
		PageNumber: 1,
		DataType:   SearchDataTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	data, err := c.execute(ctx, "search", http.MethodPost, c.endpoint("/v1/foods/search"), body)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &FetchError{Op: "search", Err: fmt.Errorf("decode search response: %w", err)}
	}

	results := make([]SearchResult, 0, min(len(resp.Foods), MaxResults))
	for _, f := range resp.Foods {
		if len(results) == MaxResults {
			break
		}
		desc := f.Description
		if desc == "" {
			desc = "Food"
		}
		results = append(results, SearchResult{
			ID:          fooddata.Str(f.FdcID),
			Description: desc,
			DataType:    f.DataType,
			BrandOwner:  f.BrandOwner,
			Category:    categoryString(f.FoodCategory),
		})
	}
	return results, nil
}

// FetchDetail returns the raw JSON detail document for one food.
func (c *Client) FetchDetail(ctx context.Context, id string) ([]byte, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("food id is required")
	}
	data, err := c.execute(ctx, "detail", http.MethodGet, c.endpoint("/v1/food/"+url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, &FetchError{Op: "detail", Err: fmt.Errorf("food %s: response is not JSON", id)}
	}
	return data, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path + "?api_key=" + url.QueryEscape(c.apiKey)
}

// execute runs one logical request through the breaker and the limiter.
func (c *Client) execute(ctx context.Context, op, method, reqURL string, body []byte) ([]byte, error) {
	data, err := c.cb.Execute(func() ([]byte, error) {
		return c.doRequest(ctx, op, method, reqURL, body)
	})
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, &FetchError{Op: op, Err: err}
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, op, method, reqURL string, body []byte) ([]byte, error) {
	log := logging.With("fdc")

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{Op: op, Err: err}
		}

		var reader io.Reader = http.NoBody
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, &FetchError{Op: op, Err: fmt.Errorf("create request: %w", err)}
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		log.Debug().Str("op", op).Int("attempt", attempt).Msg("fdc request")
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &FetchError{Op: op, Err: fmt.Errorf("http request: %w", err)}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close()
			if attempt == c.maxRetries {
				break
			}
			delay := c.retryDelay(attempt, resp.Header.Get("Retry-After"))
			log.Warn().Str("op", op).Dur("delay", delay).Msg("fdc rate limited, backing off")
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return nil, &FetchError{Op: op, Err: ctx.Err()}
			}
		}

		data, err := readResponse(resp)
		if err != nil {
			return nil, &FetchError{Op: op, Status: resp.StatusCode, Err: err}
		}
		return data, nil
	}

	return nil, &FetchError{
		Op:     op,
		Status: http.StatusTooManyRequests,
		Err:    fmt.Errorf("rate limit exceeded after %d retries", c.maxRetries),
	}
}

func (c *Client) retryDelay(attempt int, retryAfter string) time.Duration {
	delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
	if retryAfter != "" {
		if seconds, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && seconds >= 0 {
			delay = time.Duration(seconds) * time.Second
		}
	}
	return delay
}

func readResponse(resp *http.Response) ([]byte, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func categoryString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case map[string]any:
		if d, ok := x["description"].(string); ok {
			return d
		}
	}
	return ""
}
