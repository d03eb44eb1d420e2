package backend

import (
	"log"
	"net/http"
	"net/http/httputil"
)

// Proxy forwards /api/* to the backend unchanged so that the OAuth redirect
// flow and the backend's own cookies live on this origin. The session
// cookie named skipCookie is not forwarded.
func (c *Client) Proxy(skipCookie string) http.Handler {
	target := c.BaseURL()
	proxy := httputil.NewSingleHostReverseProxy(target)
	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		r.Host = target.Host
		if auth := AuthFromRequest(r, skipCookie); auth.Cookie != "" {
			r.Header.Set("Cookie", auth.Cookie)
		} else {
			r.Header.Del("Cookie")
		}
	}
	// Flush immediately so event streams pass through unbuffered.
	proxy.FlushInterval = -1
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("ERROR: proxy %s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, "backend unavailable", http.StatusBadGateway)
	}
	return proxy
}

