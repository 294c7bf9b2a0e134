package schedule

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	appLog "schedtex/internal/log"
	"schedtex/internal/model"
)

const (
	DefaultTimeout   = 20 * time.Second
	defaultUserAgent = "schedtex/0.1"

	statusSuccess = "success"
	statusError   = "error"
)

// LoaderError wraps transport and decoding failures.
type LoaderError struct {
	URL string
	Err error
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("load schedule from %s: %v", redactURL(e.URL), e.Err)
}

func (e *LoaderError) Unwrap() error { return e.Err }

// RemoteError is returned when the feed answers with status "error".
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "schedule feed reported an error: " + e.Message
}

// envelope is the JSend wrapper around the schedule payload.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    *model.Schedule `json:"data"`
}

// Options configures a Fetcher.
type Options struct {
	// Timeout bounds the whole request. Zero means DefaultTimeout.
	Timeout time.Duration
	// InsecureSkipVerify disables certificate and hostname checks.
	InsecureSkipVerify bool
}

// Fetcher loads schedules from a remote JSON feed.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with a bounded HTTP client.
func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Fetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
	}
}

// Load fetches url and decodes the schedule. It makes a single attempt.
func (f *Fetcher) Load(ctx context.Context, url string) (model.Schedule, error) {
	if url == "" {
		return model.Schedule{}, &LoaderError{URL: url, Err: errors.New("url is empty")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Schedule{}, &LoaderError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	appLog.Info("schedule fetch start", "url", redactURL(url))

	resp, err := f.client.Do(req)
	if err != nil {
		return model.Schedule{}, &LoaderError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Schedule{}, &LoaderError{URL: url, Err: errors.New(resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Schedule{}, &LoaderError{URL: url, Err: err}
	}

	sched, err := Decode(body)
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) {
			return model.Schedule{}, err
		}
		return model.Schedule{}, &LoaderError{URL: url, Err: err}
	}

	appLog.Info("schedule fetch success",
		"url", redactURL(url),
		"bytes", len(body),
		"days", len(sched.Days),
		"events", model.EventCount(sched.Days),
	)
	return sched, nil
}

// Decode parses a JSend envelope holding a schedule.
func Decode(body []byte) (model.Schedule, error) {
	if !utf8.Valid(body) {
		return model.Schedule{}, errors.New("response body is not valid UTF-8")
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return model.Schedule{}, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Status {
	case statusError:
		return model.Schedule{}, &RemoteError{Message: env.Message}
	case statusSuccess:
	default:
		appLog.Warn("unexpected envelope status", "status", env.Status)
	}

	if env.Data == nil || env.Data.Days == nil {
		return model.Schedule{}, errors.New("envelope has no data.days")
	}
	return *env.Data, nil
}

// redactURL keeps only scheme and host for logging.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	scheme, rest, ok := strings.Cut(u, "://")
	if !ok {
		return "...(redacted)"
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return scheme + "://" + rest + redactedSuffix
}
