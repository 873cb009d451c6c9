package httpx

import (
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"
)

// StatusCoder is implemented by errors that carry an HTTP status from an
// upstream API.
type StatusCoder interface {
	HTTPStatusCode() int
}

// IsRetryableStatus reports whether a response status is worth retrying:
// request timeout, rate limiting, or any server error.
func IsRetryableStatus(status int) bool {
	if status == http.StatusRequestTimeout || status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status <= 599
}

// IsRetryableError classifies an error from an HTTP round trip. Network
// timeouts and retryable upstream statuses qualify; everything else is
// treated as permanent.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		return IsRetryableStatus(sc.HTTPStatusCode())
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// RetryAfterDuration extracts a Retry-After delay from a response, capped at
// max. Returns zero when the header is absent or unparseable.
func RetryAfterDuration(resp *http.Response, max time.Duration) time.Duration {
	if resp == nil {
		return 0
	}
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		d := time.Duration(secs) * time.Second
		if d > max {
			return max
		}
		return d
	}

	if at, err := http.ParseTime(header); err == nil {
		d := time.Until(at)
		if d <= 0 {
			return 0
		}
		if d > max {
			return max
		}
		return d
	}

	return 0
}

// JitterSleep sleeps for d plus or minus up to 20%, so concurrent retries
// spread out instead of stampeding.
func JitterSleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if fifth := int64(d) / 5; fifth > 0 {
		jitter := time.Duration(rand.Int63n(fifth))
		if rand.Intn(2) == 0 {
			d -= jitter
		} else {
			d += jitter
		}
	}
	time.Sleep(d)
}
