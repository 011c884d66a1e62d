// Package dictionary looks up translations for vocabulary terms through an
// external dictionary API, caching raw responses on disk.
package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
)

//go:generate mockgen -source=client.go -destination=../mocks/dictionary/mock_client.go -package=mock_dictionary Client

// Translation is a dictionary lookup result for one term.
type Translation struct {
	Term         string   `json:"term"`
	Translations []string `json:"translations"`
}

// Primary returns the first suggested translation, or an empty string when
// the dictionary has none.
func (t Translation) Primary() string {
	if len(t.Translations) == 0 {
		return ""
	}
	return t.Translations[0]
}

// Client resolves a term to its translations.
type Client interface {
	Translate(ctx context.Context, term string) (Translation, error)
}

type Config struct {
	Host             string
	Key              string
	TimeoutSeconds   int
	MaxRetryAttempts uint
}

// HTTPClient implements Client against the dictionary HTTP API with a local
// file cache in front of it.
type HTTPClient struct {
	config     Config
	httpClient *resty.Client
	fileCache  *FileCache
}

func NewHTTPClient(cacheDirectory string, config Config) *HTTPClient {
	client := resty.New()
	client.SetBaseURL("https://" + config.Host)
	client.SetHeader("x-rapidapi-host", config.Host)
	client.SetHeader("x-rapidapi-key", config.Key)
	if config.TimeoutSeconds > 0 {
		client.SetTimeout(time.Duration(config.TimeoutSeconds) * time.Second)
	}

	return &HTTPClient{
		config:     config,
		httpClient: client,
		fileCache:  NewFileCache(cacheDirectory),
	}
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	if strings.Contains(errStr, "status code: 5") {
		return true
	}
	if strings.Contains(errStr, "status code: 429") {
		return true
	}
	return false
}

func (c *HTTPClient) lookupAPI(ctx context.Context, term string) ([]byte, error) {
	res, err := c.httpClient.R().
		SetContext(ctx).
		Get("/translations/" + url.PathEscape(term))
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}
	return res.Body(), nil
}

// Translate returns the translations for term, serving from the file cache
// when a previous lookup stored them.
func (c *HTTPClient) Translate(ctx context.Context, term string) (Translation, error) {
	var result Translation
	contents, err := c.fileCache.cache(term, func() ([]byte, error) {
		var body []byte
		err := retry.Do(
			func() error {
				var lookupErr error
				body, lookupErr = c.lookupAPI(ctx, term)
				if lookupErr != nil {
					if !isRetryableError(lookupErr) {
						return retry.Unrecoverable(lookupErr)
					}
					return lookupErr
				}
				return nil
			},
			retry.Context(ctx),
			retry.Attempts(c.config.MaxRetryAttempts+1),
		)
		if err != nil {
			return nil, fmt.Errorf("c.lookupAPI > %w", err)
		}
		return body, nil
	})
	if err != nil {
		return result, fmt.Errorf("c.fileCache.cache > %w", err)
	}
	if err := json.Unmarshal(contents, &result); err != nil {
		return result, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return result, nil
}
