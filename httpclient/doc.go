// Package httpclient is the outbound HTTP client shared by the image
// sources, the Supabase storage backend and the image preloader. It adds
// base URLs, default headers, authentication, TLS and optional retry,
// circuit breaking and rate limiting on top of net/http.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL:     "https://api.github.com",
//	    Headers:     map[string]string{"Accept": "application/vnd.github.v3+json"},
//	    RateLimiter: &resilience.RateLimiterConfig{Name: "github", Rate: 0.5, Burst: 3},
//	})
//	resp, err := client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/repos/o/r/contents/images"})
//
// Non-2xx responses are returned together with a classified *Error.
package httpclient
