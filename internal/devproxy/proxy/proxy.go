package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"syscall"
	"time"

	"github.com/Palgie/luxury-beauty-app/internal/devproxy/config"
)

// UpstreamProxy forwards GraphQL requests to the catalog API, injecting
// the trust headers the upstream requires from non-browser clients.
type UpstreamProxy struct {
	proxy  *httputil.ReverseProxy
	target *url.URL
	logger *slog.Logger
}

// New creates a reverse proxy for the configured upstream.
func New(cfg *config.Config, logger *slog.Logger) (*UpstreamProxy, error) {
	target, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		return nil, err
	}

	up := &UpstreamProxy{target: target, logger: logger}

	rp := httputil.NewSingleHostReverseProxy(target)

	director := rp.Director
	rp.Director = func(r *http.Request) {
		director(r)
		// The upstream routes on Host, so the local host must not
		// leak through.
		r.Host = target.Host
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("x-trust-client-ip-key", cfg.TrustClientIPKey)
		r.Header.Set("x-altitude-instance", cfg.AltitudeInstance)
		r.Header.Set("x-horizon-client", cfg.HorizonClient)
		r.Header.Set("x-trusted-client-ip", cfg.TrustedClientIP)
	}

	rp.Transport = &http.Transport{
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: cfg.UpstreamTimeout,
	}

	rp.ModifyResponse = func(resp *http.Response) error {
		logger.Debug("upstream response",
			slog.String("method", resp.Request.Method),
			slog.String("path", resp.Request.URL.Path),
			slog.Int("status", resp.StatusCode),
		)
		return nil
	}

	rp.ErrorHandler = up.errorHandler

	up.proxy = rp
	logger.Info("registered upstream proxy", slog.String("target", cfg.UpstreamURL))
	return up, nil
}

// ServeHTTP forwards the request to the upstream.
func (up *UpstreamProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	up.proxy.ServeHTTP(w, r)
}

// errorHandler writes upstream failures as a GraphQL-style error body
// so the mobile client's error classification handles proxy failures
// the same way as API failures.
func (up *UpstreamProxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	up.logger.Error("proxy error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]any{{
			"message": "Proxy Error",
			"extensions": map[string]any{
				"code":          errorCode(err),
				"originalError": err.Error(),
			},
		}},
	})
}

// errorCode maps transport failures onto the errno-style codes the
// mobile client already recognises.
func errorCode(err error) string {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "ECONNREFUSED"
	case errors.Is(err, syscall.ECONNRESET):
		return "ECONNRESET"
	case errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err):
		return "ETIMEDOUT"
	case errors.Is(err, context.Canceled):
		return "ECONNABORTED"
	default:
		return "UNKNOWN_ERROR"
	}
}
