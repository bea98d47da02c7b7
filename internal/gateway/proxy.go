package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/google/uuid"
	"github.com/ridloal/product-catalog/internal/platform/logger"
)

// Routes are the path prefixes served by the catalog service.
var Routes = []string{
	"/api/v1/products",
	"/api/v1/categories",
}

func newSingleHostReverseProxy(targetHost string) (*httputil.ReverseProxy, error) {
	targetURL, err := url.Parse(targetHost)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target URL '%s': %w", targetHost, err)
	}
	if targetURL.Scheme == "" || targetURL.Host == "" {
		return nil, fmt.Errorf("target URL '%s' must include scheme and host", targetHost)
	}

	proxy := httputil.NewSingleHostReverseProxy(targetURL)
	proxy.ErrorHandler = func(rw http.ResponseWriter, req *http.Request, err error) {
		logger.Error(fmt.Sprintf("Gateway: proxy error for %s %s to %s", req.Method, req.URL.Path, targetURL), err)
		http.Error(rw, "Service unavailable or proxy error", http.StatusBadGateway)
	}
	return proxy, nil
}

// NewHandler forwards every catalog route, with and without a trailing
// path, to target. Paths are passed through unchanged.
func NewHandler(target string) (http.Handler, error) {
	proxy, err := newSingleHostReverseProxy(target)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	for _, prefix := range Routes {
		mux.Handle(prefix, proxy)
		mux.Handle(prefix+"/", proxy)
		logger.Info("Routing %s to %s", prefix, target)
	}
	return withRequestID(mux), nil
}

// withRequestID makes sure the upstream sees the same request id the
// gateway logs.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(logger.RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
			r.Header.Set(logger.RequestIDHeader, reqID)
		}
		logger.Debug("Gateway: %s %s (request %s)", r.Method, r.URL.Path, reqID)
		next.ServeHTTP(w, r)
	})
}
