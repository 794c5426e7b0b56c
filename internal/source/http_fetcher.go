package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spec-kit/department-summary/internal/config"
	"github.com/spec-kit/department-summary/internal/domain"
)

// defaultFetchTimeout applies when SOURCE_TIMEOUT is zero.
const defaultFetchTimeout = 30 * time.Second

// HTTPFetcher pulls users from a JSON API with a single GET.
type HTTPFetcher struct {
	url       string
	usersPath string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewHTTPFetcher builds a fetcher for cfg.URL. UsersPath is a gjson path to
// the user array inside the body; use "@this" for a bare array.
func NewHTTPFetcher(cfg config.SourceConfig, logger *zap.Logger) *HTTPFetcher {
	path := cfg.UsersPath
	if path == "" {
		path = "@this"
	}
	return &HTTPFetcher{
		url:       cfg.URL,
		usersPath: path,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// Name identifies the source in snapshots and logs.
func (f *HTTPFetcher) Name() string {
	return "http:" + f.url
}

type fetchResponse struct {
	code int
	body []byte
	err  error
}

// FetchUsers issues the request. A context cancelled before the response
// arrives wins; the late response is dropped.
func (f *HTTPFetcher) FetchUsers(ctx context.Context) ([]domain.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan fetchResponse, 1)
	go func() {
		agent := fiber.Get(f.url)
		agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
		agent.Timeout(f.requestTimeout(ctx))
		code, body, errs := agent.Bytes()
		done <- fetchResponse{code: code, body: body, err: errors.Join(errs...)}
	}()

	var resp fetchResponse
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp = <-done:
	}

	if resp.err != nil {
		return nil, fmt.Errorf("get %s: %w", f.url, resp.err)
	}
	if resp.code < 200 || resp.code > 299 {
		return nil, fmt.Errorf("get %s: %w: %d", f.url, ErrUpstreamStatus, resp.code)
	}

	users, err := f.decode(resp.body)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("users fetched", zap.String("url", f.url), zap.Int("count", len(users)))
	return users, nil
}

func (f *HTTPFetcher) decode(body []byte) ([]domain.UserRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrUnexpectedPayload)
	}
	collection := gjson.GetBytes(body, f.usersPath)
	if !collection.IsArray() {
		return nil, fmt.Errorf("%w: %q is not an array", ErrUnexpectedPayload, f.usersPath)
	}

	users := make([]domain.UserRecord, 0, len(collection.Array()))
	if err := json.Unmarshal([]byte(collection.Raw), &users); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedPayload, err)
	}
	return users, nil
}

// requestTimeout is the configured timeout, or defaultFetchTimeout when none
// is set, shortened to the context deadline. It is always positive so the
// request goroutine cannot outlive a cancelled fetch indefinitely.
func (f *HTTPFetcher) requestTimeout(ctx context.Context) time.Duration {
	t := f.timeout
	if t <= 0 {
		t = defaultFetchTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < t {
			t = left
		}
	}
	if t <= 0 {
		t = time.Millisecond
	}
	return t
}
