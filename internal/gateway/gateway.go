package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coursereview/internal/errors"
	"coursereview/internal/httpx"
)

// Gateway is the read-only view of the remote course-review API. Every
// failure is returned as an *errors.SyncError.
type Gateway interface {
	FetchCourses(ctx context.Context) ([]RemoteCourse, error)
	FetchReviews(ctx context.Context, courseID int64) ([]RemoteReview, error)
	FetchAllReviews(ctx context.Context) ([]RemoteReview, error)
}

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 15 * time.Second

// Client is the HTTP implementation of Gateway. It is stateless: no retries
// and no caching happen here.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Timeout time.Duration // per fetch; <=0 means DefaultTimeout
}

var _ Gateway = (*Client)(nil)

func New(baseURL string, timeout time.Duration) *Client {
	tr := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Transport: tr},
		Timeout: timeout,
	}
}

/* -------- API -------- */

// FetchCourses calls GET {base}/courses.
func (c *Client) FetchCourses(ctx context.Context) ([]RemoteCourse, error) {
	const op = "fetch courses"

	var out coursesResponse
	u, err := c.getJSON(ctx, op, &out, "courses")
	if err != nil {
		return nil, err
	}
	if out.Courses == nil {
		return nil, malformed(op, u, errors.New(`missing "courses" key`))
	}

	for i, rc := range *out.Courses {
		if rc.Code == "" {
			return nil, malformed(op, u, fmt.Errorf("course at index %d (id=%d) has no code", i, rc.ID))
		}
	}
	return *out.Courses, nil
}

// FetchReviews calls GET {base}/reviews/{courseID}.
func (c *Client) FetchReviews(ctx context.Context, courseID int64) ([]RemoteReview, error) {
	return c.fetchReviews(ctx, "fetch reviews", "reviews", strconv.FormatInt(courseID, 10))
}

// FetchAllReviews calls GET {base}/reviews, the aggregate list used for
// review counts.
func (c *Client) FetchAllReviews(ctx context.Context) ([]RemoteReview, error) {
	return c.fetchReviews(ctx, "fetch all reviews", "reviews")
}

func (c *Client) fetchReviews(ctx context.Context, op string, path ...string) ([]RemoteReview, error) {
	var out reviewsResponse
	u, err := c.getJSON(ctx, op, &out, path...)
	if err != nil {
		return nil, err
	}
	if out.Reviews == nil {
		return nil, malformed(op, u, errors.New(`missing "reviews" key`))
	}
	return *out.Reviews, nil
}

// getJSON performs one bounded GET and decodes the body into out. It returns
// the resolved URL for error reporting.
func (c *Client) getJSON(ctx context.Context, op string, out any, path ...string) (string, error) {
	u, err := url.JoinPath(c.BaseURL, path...)
	if err != nil {
		return "", &errors.SyncError{Kind: errors.KindUnreachable, Op: op, URL: c.BaseURL, Err: fmt.Errorf("invalid base url: %w", err)}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := httpx.Get(ctx, c.HTTP, u)
	if err != nil {
		var herr *httpx.HTTPError
		if errors.As(err, &herr) {
			return u, &errors.SyncError{
				Kind:       errors.KindBadResponse,
				Op:         op,
				URL:        u,
				StatusCode: herr.StatusCode,
				RetryAfter: httpx.ParseRetryAfter(herr.Header),
				Err:        herr,
			}
		}
		return u, errors.Classify(op, u, err)
	}

	// 2xx other than 200 is still a contract violation.
	if resp.StatusCode != http.StatusOK {
		return u, &errors.SyncError{Kind: errors.KindBadResponse, Op: op, URL: u, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return u, malformed(op, u, fmt.Errorf("json parse error: %w body=%s", err, httpx.Snippet(resp.Body, 300)))
	}
	return u, nil
}

func malformed(op, u string, err error) *errors.SyncError {
	se := errors.NewSyncError(errors.KindMalformedPayload, op, err)
	se.URL = u
	return se
}
