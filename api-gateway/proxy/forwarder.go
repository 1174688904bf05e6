package proxy

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopswift/commerce-backend/api-gateway/middlewares"
	apperrors "github.com/shopswift/commerce-backend/services/common/errors"
	"github.com/shopswift/commerce-backend/services/common/logger"
	"go.uber.org/zap"
)

// Identity headers are only ever set by the gateway. Anything the client sent
// under these names is dropped before forwarding.
var identityHeaders = []string{"X-User-ID", "X-User-Role", "X-User-Email"}

var hopByHop = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailers":            true,
	"transfer-encoding":   true,
	"upgrade":             true,
}

var ErrUpstreamUnreachable = apperrors.New(http.StatusBadGateway, "Service unreachable", nil)

// Forwarder relays gin requests to a downstream service.
type Forwarder struct {
	client *http.Client
}

func NewForwarder(timeout time.Duration) *Forwarder {
	return &Forwarder{client: &http.Client{Timeout: timeout}}
}

// To returns a handler forwarding the request path unchanged to targetBase.
func (f *Forwarder) To(targetBase string) gin.HandlerFunc {
	targetBase = strings.TrimRight(targetBase, "/")
	return func(c *gin.Context) {
		f.forward(c, targetBase)
	}
}

func (f *Forwarder) forward(c *gin.Context, targetBase string) {
	targetURL := targetBase + c.Request.URL.EscapedPath()
	if c.Request.URL.RawQuery != "" {
		targetURL += "?" + c.Request.URL.RawQuery
	}

	logger.Debug(c, "forwarding request",
		zap.String("method", c.Request.Method),
		zap.String("url", targetURL),
	)

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, c.Request.Body)
	if err != nil {
		_ = c.Error(apperrors.Internal(err))
		return
	}
	req.ContentLength = c.Request.ContentLength

	for k, v := range c.Request.Header {
		if hopByHop[strings.ToLower(k)] {
			continue
		}
		req.Header[k] = v
	}
	for _, h := range identityHeaders {
		req.Header.Del(h)
	}
	setFromContext(c, req, middlewares.UserIDKey, "X-User-ID")
	setFromContext(c, req, middlewares.RoleKey, "X-User-Role")
	setFromContext(c, req, middlewares.EmailKey, "X-User-Email")
	req.Header.Set(logger.RequestIDHeader, logger.RequestIDFrom(c))
	req.Header.Set("X-Forwarded-For", c.ClientIP())

	resp, err := f.client.Do(req)
	if err != nil {
		_ = c.Error(apperrors.New(ErrUpstreamUnreachable.Code, ErrUpstreamUnreachable.Message, err))
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		lowerKey := strings.ToLower(k)
		// CORS is answered by the gateway itself.
		if strings.HasPrefix(lowerKey, "access-control-") || hopByHop[lowerKey] {
			continue
		}
		for _, value := range v {
			c.Writer.Header().Add(k, value)
		}
	}

	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		logger.Error(c, "failed to copy upstream response", err)
	}
}

func setFromContext(c *gin.Context, req *http.Request, key, header string) {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok && s != "" {
			req.Header.Set(header, s)
		}
	}
}
