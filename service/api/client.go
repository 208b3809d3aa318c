// Package api contains the HTTP client and recorders that talk to the
// collection backend.
package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/splitio/go-toolkit/v5/logging"
)

const prodEventsURL = "https://events.split.io/api"

const defaultHTTPTimeout = 30 * time.Second

// HTTPClient wraps up a net/http.Client with auth and logging for backend calls
type HTTPClient struct {
	url        string
	httpClient *http.Client
	apikey     string
	logger     logging.LoggerInterface
}

// NewHTTPClient returns a client pointed at endpoint. An empty endpoint selects
// the production events URL; a zero timeout selects the default.
func NewHTTPClient(apikey string, endpoint string, timeout time.Duration, logger logging.LoggerInterface) *HTTPClient {
	if endpoint == "" {
		endpoint = prodEventsURL
	}
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}
	return &HTTPClient{
		url:        endpoint,
		httpClient: &http.Client{Timeout: timeout},
		apikey:     apikey,
		logger:     logger,
	}
}

// Post performs an HTTP POST of body to the given service path
func (c *HTTPClient) Post(service string, body []byte, headers map[string]string) error {
	serviceURL := c.url + service
	c.logger.Debug("[POST] ", serviceURL)
	req, err := http.NewRequest("POST", serviceURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Close = true // To prevent EOF error when connection is closed

	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+c.apikey)
	for headerName, headerValue := range headers {
		req.Header.Add(headerName, headerValue)
	}

	c.logger.Verbose("[REQUEST_BODY]", string(body), "[END_REQUEST_BODY]")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Error posting data to API: ", req.URL.String(), " ", err.Error())
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error(err.Error())
		return err
	}
	c.logger.Verbose("[RESPONSE_BODY]", string(respBody), "[END_RESPONSE_BODY]")

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return nil
	}
	return fmt.Errorf("POST method: Status Code: %d - %s", resp.StatusCode, resp.Status)
}
