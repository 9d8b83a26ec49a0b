package dom

import (
	"fmt"
	"net/http"
	"time"
)

// Transport decorates a RoundTripper with retries, rate limiting and a
// default user agent for document fetching.
type Transport struct {
	Transport   http.RoundTripper
	RetryCount  int
	RateLimiter <-chan time.Time
	UserAgent   string
}

func (t Transport) Client() *http.Client {
	if t.Transport == nil {
		t.Transport = http.DefaultTransport
	}
	return &http.Client{Transport: &t}
}

func (t *Transport) RoundTrip(req *http.Request) (res *http.Response, err error) {
	if t.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}
	for i := 0; ; i++ {
		if t.RateLimiter != nil {
			<-t.RateLimiter
		}
		if res, err = t.Transport.RoundTrip(req); err == nil && res.StatusCode < 500 {
			return res, nil
		}
		if i == t.RetryCount {
			return res, err
		}
		if res != nil {
			res.Body.Close()
		}
	}
}

// Load fetches a url and parses the response body into a Document.
func Load(client *http.Client, url string) (*Document, error) {
	res, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("status: %d", res.StatusCode)
	}
	return Parse(res.Body)
}

// LoadReq is Load for a prepared request.
func LoadReq(client *http.Client, req *http.Request) (*Document, error) {
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return Parse(res.Body)
}
