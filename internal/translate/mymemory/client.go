package mymemory

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.mymemory.translated.net"

// Client translates short texts with the MyMemory public API.
type Client struct {
	httpClient   *resty.Client
	contactEmail string
}

// NewClient creates a client. contactEmail is sent as the "de" parameter,
// which raises the anonymous daily quota.
func NewClient(baseURL, contactEmail string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient:   resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		contactEmail: contactEmail,
	}
}

// Translate implements translate.Provider.
func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("q", text).
		SetQueryParam("langpair", from+"|"+to).
		SetResult(&Response{})
	if c.contactEmail != "" {
		req.SetQueryParam("de", c.contactEmail)
	}

	res, err := req.Get("/get")
	if err != nil {
		return "", fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}

	body := res.Result().(*Response)
	if body.ResponseStatus != http.StatusOK {
		return "", fmt.Errorf("response status: %d, details: %s", body.ResponseStatus, body.ResponseDetails)
	}
	translated := strings.TrimSpace(body.ResponseData.TranslatedText)
	if translated == "" {
		return "", fmt.Errorf("empty translation for %q", text)
	}
	return translated, nil
}
