package resudoc

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, target any) error {
	return c.do(ctx, http.MethodGet, path, q, nil, "", target)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, target any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(data), contentType, target)
}

func (c *Client) delete(ctx context.Context, path string, target any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", target)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader, bodyType string, target any) error {
	if method == http.MethodPost {
		ctx = withoutRetries(ctx)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.APIURL+path, body)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	if bodyType != "" {
		req.Header.Set("Content-Type", bodyType)
	}
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newAPIError(resp, data)
	}

	if target == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}

	return nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got response", zap.String("url", req.URL.String()), zap.Int("status", resp.StatusCode))
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

// readBody reads the whole body. Setting Accept-Encoding by hand turns off the
// transport's transparent decompression, so gzip is handled here.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(reader)
}
