// Package api implements the client side of the product matcher HTTP API.
// The methods of the [Client] type correspond to the routes served by the
// server package. The prodmatch command-line client uses this package to
// talk to a running server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/envconfig"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/version"
)

// maxResponseSize begrenzt Antworten des Servers (100 Treffer passen locker).
const maxResponseSize = 8 << 20

// Client talks to a running matcher service.
// Use [ClientFromEnvironment] to create new Clients.
type Client struct {
	base *url.URL
	http *http.Client
}

// ClientFromEnvironment creates a new [Client] using configuration from the
// environment variable PRODMATCH_HOST, which points to the network host and
// port on which the matcher service is listening. The format of this variable
// is:
//
//	<scheme>://<host>:<port>
//
// If the variable is not specified, a default host and port will be used.
func ClientFromEnvironment() (*Client, error) {
	return NewClient(envconfig.Host(), http.DefaultClient), nil
}

func NewClient(base *url.URL, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{base: base, http: hc}
}

// formBody ist ein fertig kodierter Body mit eigenem Content-Type (multipart)
type formBody struct {
	body        io.Reader
	contentType string
}

func userAgent() string {
	return fmt.Sprintf("prodmatch/%s (%s %s) Go/%s", version.Version, runtime.GOARCH, runtime.GOOS, runtime.Version())
}

// encodeBody wandelt reqData in Body und Content-Type um.
// nil bedeutet kein Body, alles ausser formBody und io.Reader wird JSON.
func encodeBody(reqData any) (io.Reader, string, error) {
	switch v := reqData.(type) {
	case nil:
		return nil, "", nil
	case formBody:
		return v.body, v.contentType, nil
	case io.Reader:
		return v, "application/octet-stream", nil
	}

	data, err := json.Marshal(reqData)
	if err != nil {
		return nil, "", fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, reqData any) (*http.Request, error) {
	body, contentType, err := encodeBody(reqData)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent())
	return req, nil
}

// checkError macht aus einer Fehlerantwort einen StatusError.
// Bodies die kein {"error": ...} sind, werden komplett als Nachricht uebernommen.
func checkError(resp *http.Response, body []byte) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	apiError := StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	if err := json.Unmarshal(body, &apiError); err != nil || apiError.ErrorMessage == "" {
		apiError.ErrorMessage = string(bytes.TrimSpace(body))
	}
	return apiError
}

func (c *Client) do(ctx context.Context, method, path string, reqData, respData any) error {
	req, err := c.newRequest(ctx, method, path, reqData)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return err
	}

	if err := checkError(resp, respBody); err != nil {
		return err
	}

	if respData == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, respData); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
