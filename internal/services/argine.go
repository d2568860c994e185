package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/midgardbridge/dealreport/internal/logger"
	"github.com/midgardbridge/dealreport/internal/types"
)

// ArgineQuery is the partial deal state sent to the bidding oracle.
type ArgineQuery struct {
	Dealer                 string `json:"dealer"`
	Vulnerability          string `json:"vulnerability"`
	Distribution           string `json:"distribution"`
	Bids                   string `json:"bids"`
	ConventionsBids        string `json:"conventionsBids"`
	ConventionsProfileBids string `json:"conventionsProfileBids"`
}

// BidWithInfo is the oracle's next recommended bid plus the hand-shape
// ranges it associates with that bid.
type BidWithInfo struct {
	Bid     string        `json:"bid"`
	BidInfo types.BidInfo `json:"bidInfo"`
}

type ArgineClient interface {
	// GetNextBidWithInfo returns the next bid for the player about to act,
	// together with its statistical range.
	GetNextBidWithInfo(ctx context.Context, q ArgineQuery) (*BidWithInfo, error)
	// GetBidInfo returns the range for the last bid of q.Bids, already made.
	GetBidInfo(ctx context.Context, q ArgineQuery) (*types.BidInfo, error)
}

type argineClient struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

func NewArgineClient(log *logger.Logger) (ArgineClient, error) {
	baseURL := os.Getenv("ARGINE_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("missing ARGINE_BASE_URL")
	}

	timeoutSec := 30
	if v := os.Getenv("ARGINE_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}
	maxRetries := 2
	if v := os.Getenv("ARGINE_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &argineClient{
		log:        log.With("service", "ArgineClient"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type argineHTTPError struct {
	StatusCode int
	Body       string
}

func (e *argineHTTPError) Error() string {
	return fmt.Sprintf("argine http %d: %s", e.StatusCode, e.Body)
}

func isRetryableHTTP(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

func (c *argineClient) GetNextBidWithInfo(ctx context.Context, q ArgineQuery) (*BidWithInfo, error) {
	var out BidWithInfo
	if err := c.post(ctx, "/api/argine/next-bid", q, &out); err != nil {
		return nil, err
	}
	if out.Bid == "" {
		return nil, fmt.Errorf("argine next-bid response missing bid")
	}
	if err := validateBidInfo(out.BidInfo); err != nil {
		return nil, fmt.Errorf("argine next-bid response: %w", err)
	}
	return &out, nil
}

func (c *argineClient) GetBidInfo(ctx context.Context, q ArgineQuery) (*types.BidInfo, error) {
	var out types.BidInfo
	if err := c.post(ctx, "/api/argine/bid-info", q, &out); err != nil {
		return nil, err
	}
	if err := validateBidInfo(out); err != nil {
		return nil, fmt.Errorf("argine bid-info response: %w", err)
	}
	return &out, nil
}

// validateBidInfo checks the oracle response shape at the boundary so that
// nothing downstream has to trust field presence.
func validateBidInfo(info types.BidInfo) error {
	ranges := []struct {
		name string
		r    types.Range
	}{
		{types.ParameterHCP, info.HCP},
		{types.ParameterClub, info.Club},
		{types.ParameterDiamond, info.Diamond},
		{types.ParameterHeart, info.Heart},
		{types.ParameterSpade, info.Spade},
	}
	for _, entry := range ranges {
		if entry.r.Min < 0 || entry.r.Max < 0 {
			return fmt.Errorf("bidInfo %s range has negative bound: %+v", entry.name, entry.r)
		}
		if entry.r.Min > entry.r.Max {
			return fmt.Errorf("bidInfo %s range inverted: %+v", entry.name, entry.r)
		}
	}
	return nil
}

func (c *argineClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal argine query: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(200*(1<<attempt))*time.Millisecond + time.Duration(rand.Intn(100))*time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			lastErr = doErr
			c.log.Warn("Argine request failed", "path", path, "attempt", attempt, "error", doErr)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}
		if resp.StatusCode != http.StatusOK {
			httpErr := &argineHTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
			if isRetryableHTTP(resp.StatusCode) {
				lastErr = httpErr
				c.log.Warn("Argine returned retryable status", "path", path, "status", resp.StatusCode, "attempt", attempt)
				continue
			}
			return httpErr
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode argine response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("argine %s failed after %d attempts: %w", path, c.maxRetries+1, lastErr)
}
