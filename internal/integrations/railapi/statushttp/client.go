package statushttp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/BearBump/RailStatus/internal/integrations/railapi"
	"github.com/BearBump/RailStatus/internal/models"
	"github.com/pkg/errors"
)

const (
	DefaultPNRStatusURL     = "https://redbus-backend-whco.onrender.com/api/getPnrData"
	DefaultRunningStatusURL = "https://redbus-backend-whco.onrender.com/api/status"

	maxBodyBytes = 4 << 20
)

// Client is the status lookup client. It makes exactly one GET per lookup:
// no retries, no caching, no rate limiting.
type Client struct {
	pnrURL     string
	runningURL string
	httpc      *http.Client
}

func New(pnrURL, runningURL string) *Client {
	if pnrURL == "" {
		pnrURL = DefaultPNRStatusURL
	}
	if runningURL == "" {
		runningURL = DefaultRunningStatusURL
	}
	return &Client{
		pnrURL:     pnrURL,
		runningURL: runningURL,
		httpc:      &http.Client{},
	}
}

// WithTimeout sets a client-side timeout. Zero keeps the default of none.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.httpc.Timeout = d
	}
	return c
}

func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpc = hc
	}
	return c
}

func (c *Client) Lookup(ctx context.Context, query string, kind models.LookupKind) models.StatusResult {
	q, lerr, err := railapi.NewQuery(query, kind)
	if err != nil {
		slog.Error("status lookup rejected", "kind", string(kind), "error", err.Error())
		return railapi.TransportFailure(kind, q.Identifier)
	}
	if lerr != nil {
		return models.Failed(kind, q.Identifier, *lerr)
	}

	body, err := c.get(ctx, q)
	if err != nil {
		slog.Error("status lookup transport failure", "kind", string(kind), "query", q.Identifier, "error", err.Error())
		return railapi.TransportFailure(kind, q.Identifier)
	}

	switch kind {
	case models.LookupKindPNR:
		upstream, err := railapi.PNREnvelopeError(body)
		if err != nil {
			slog.Error("status lookup bad body", "kind", string(kind), "query", q.Identifier, "error", err.Error())
			return railapi.TransportFailure(kind, q.Identifier)
		}
		if upstream != nil {
			slog.Info("status lookup upstream error", "query", q.Identifier, "code", string(upstream.Code))
			return models.Failed(kind, q.Identifier, *upstream)
		}
		p, err := railapi.DecodePNR(body)
		if err != nil {
			slog.Error("status lookup bad body", "kind", string(kind), "query", q.Identifier, "error", err.Error())
			return railapi.TransportFailure(kind, q.Identifier)
		}
		return models.OkPNR(q.Identifier, p)
	default:
		s, err := railapi.DecodeRunning(body)
		if err != nil {
			slog.Error("status lookup bad body", "kind", string(kind), "query", q.Identifier, "error", err.Error())
			return railapi.TransportFailure(kind, q.Identifier)
		}
		return models.OkRunning(q.Identifier, s)
	}
}

func (c *Client) requestURL(q models.LookupQuery) (string, error) {
	endpoint, param := c.runningURL, "trainNumber"
	if q.Kind == models.LookupKindPNR {
		endpoint, param = c.pnrURL, "pnrno"
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parse endpoint url")
	}
	v := u.Query()
	v.Set(param, q.Identifier)
	u.RawQuery = v.Encode()
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, q models.LookupQuery) ([]byte, error) {
	u, err := c.requestURL(q)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, errors.Errorf("status api http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return body, nil
}
