package server

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/akave-ai/akavelog/internal/ratelimit"
)

// setRateLimitHeaders sets the limit/remaining/reset observability headers
// for the tier that just ran a successful check.
func setRateLimitHeaders(c echo.Context, res *ratelimit.Result) {
	h := c.Response().Header()
	h.Set(fmt.Sprintf("X-RateLimit-Limit-%s", res.Tier), strconv.Itoa(res.Limit))
	h.Set(fmt.Sprintf("X-RateLimit-Remaining-%s", res.Tier), strconv.FormatInt(res.Remaining, 10))
	h.Set(fmt.Sprintf("X-RateLimit-Reset-%s", res.Tier), strconv.FormatInt(res.ResetUnix, 10))
}

// tenantKey is the rate-limit key for the tenant tier.
func tenantKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
