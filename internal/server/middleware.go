package server

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/akave-ai/akavelog/internal/apperr"
	"github.com/akave-ai/akavelog/internal/response"
)

// captureRawBody taps the HTTP pipeline before any JSON parsing and makes
// the exact signed bytes available to the authenticator: for mutating
// methods, the request body as received; for GET, the raw query string.
// Parsed JSON is never re-serialised for signature verification.
func captureRawBody(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if req.Method == http.MethodGet || req.Method == http.MethodHead {
			setRawBody(c, []byte(req.URL.RawQuery))
			return next(c)
		}

		body, err := io.ReadAll(req.Body)
		if err != nil {
			return response.Fail(c, apperr.Wrap(apperr.CodeInvalidEventData, "failed to read request body", err))
		}
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))
		setRawBody(c, body)
		return next(c)
	}
}

// apiAuth builds echo middleware that runs the address-tier rate limit
// before API-mode authentication, so an unauthenticated flood is throttled
// before it reaches the tenant lookup and signature check, then runs
// authentication and attaches the resolved tenant to the context for
// downstream tenant-tier limiting and handlers.
func (s *Server) apiAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		now := time.Now()

		if res, err := s.limiter.CheckAddress(c.Request().Context(), c.RealIP(), s.cfg.Limits.RateLimitPerIP, now); err != nil {
			return response.Fail(c, err)
		} else {
			setRateLimitHeaders(c, res)
		}

		key := c.Request().Header.Get("X-Project-Key")
		sig := c.Request().Header.Get("X-Signature")
		t, err := s.authenticator.AuthenticateAPI(c.Request().Context(), key, sig, rawBody(c))
		if err != nil {
			return response.Fail(c, err)
		}
		setTenant(c, t)

		limit := t.MinuteCap
		if limit <= 0 {
			limit = s.cfg.Limits.RateLimitPerMinute
		}
		res, err := s.limiter.CheckTenant(c.Request().Context(), tenantKey(t.ID), limit, now)
		if err != nil {
			return response.Fail(c, err)
		}
		setRateLimitHeaders(c, res)

		return next(c)
	}
}

// adminAuth builds echo middleware that runs admin-mode authentication.
// Admin routes remain subject to the address tier but not the tenant
// tier, since no tenant is resolved.
func (s *Server) adminAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		now := time.Now()
		if res, err := s.limiter.CheckAddress(c.Request().Context(), c.RealIP(), s.cfg.Limits.RateLimitPerIP, now); err != nil {
			return response.Fail(c, err)
		} else {
			setRateLimitHeaders(c, res)
		}

		token := c.Request().Header.Get("X-Admin-Token")
		if err := s.authenticator.AuthenticateAdmin(token); err != nil {
			return response.Fail(c, err)
		}
		return next(c)
	}
}
