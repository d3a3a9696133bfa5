package factcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stake-plus/capapp/src/webclient"
)

const DefaultGoogleEndpoint = "https://factchecktools.googleapis.com"

// GoogleClient queries the Google Fact Check Tools claims:search API.
type GoogleClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	sanitizer  *bluemonday.Policy
}

// NewGoogleClient builds a client. An empty key is accepted; every search then
// fails with ErrMissingGoogleKey.
func NewGoogleClient(apiKey, endpoint string, timeout time.Duration) *GoogleClient {
	if endpoint == "" {
		endpoint = DefaultGoogleEndpoint
	}
	return &GoogleClient{
		apiKey:     apiKey,
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: webclient.NewDefault(timeout),
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

type claimSearchResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
			} `json:"publisher"`
			URL           string `json:"url"`
			TextualRating string `json:"textualRating"`
			ReviewDate    string `json:"reviewDate"`
			PublishDate   string `json:"publishDate"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// Search returns every review of every claim matching the statement. An empty result
// means the database has nothing on the statement; it is not an error.
func (c *GoogleClient) Search(ctx context.Context, statement string) ([]ClaimRecord, error) {
	if c.apiKey == "" {
		return nil, ErrMissingGoogleKey
	}
	statement = strings.TrimSpace(statement)
	if statement == "" {
		return nil, ErrEmptyStatement
	}

	q := url.Values{}
	q.Set("query", statement)
	q.Set("key", c.apiKey)
	reqURL := c.endpoint + "/v1alpha1/claims:search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("google: build request: %w", err)
	}
	status, body, err := webclient.Fetch(c.httpClient, req)
	if err != nil {
		return nil, fmt.Errorf("google: %w", err)
	}
	if status < 200 || status > 299 {
		return nil, &StatusError{Upstream: "google", Code: status}
	}

	var parsed claimSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("google: decode response: %w", err)
	}

	var records []ClaimRecord
	for _, claim := range parsed.Claims {
		for _, review := range claim.ClaimReview {
			date := review.ReviewDate
			if date == "" {
				date = review.PublishDate
			}
			records = append(records, ClaimRecord{
				Claim:      c.clean(claim.Text, statement),
				Rating:     c.clean(review.TextualRating, "Unknown"),
				Publisher:  c.clean(review.Publisher.Name, "Unknown publisher"),
				URL:        review.URL,
				ReviewDate: valueOrDefault(date, "Unknown date"),
			})
		}
	}
	return records, nil
}

// clean strips markup from upstream text and substitutes def when nothing is left.
func (c *GoogleClient) clean(s, def string) string {
	s = strings.TrimSpace(html.UnescapeString(c.sanitizer.Sanitize(s)))
	return valueOrDefault(s, def)
}

func valueOrDefault(val, def string) string {
	if val != "" {
		return val
	}
	return def
}
