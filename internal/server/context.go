package server

import (
	"github.com/labstack/echo/v4"

	"github.com/akave-ai/akavelog/internal/model"
)

// Context keys used to pass request-scoped values from middleware to
// handlers. Unexported so only this package's middleware/handlers touch
// them directly.
const (
	ctxKeyRawBody = "akavelog.raw_body"
	ctxKeyTenant  = "akavelog.tenant"
)

func setRawBody(c echo.Context, body []byte) { c.Set(ctxKeyRawBody, body) }

func rawBody(c echo.Context) []byte {
	v, _ := c.Get(ctxKeyRawBody).([]byte)
	return v
}

func setTenant(c echo.Context, t *model.Tenant) { c.Set(ctxKeyTenant, t) }

func tenantFrom(c echo.Context) *model.Tenant {
	v, _ := c.Get(ctxKeyTenant).(*model.Tenant)
	return v
}
