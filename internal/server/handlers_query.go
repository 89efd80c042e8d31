package server

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/akave-ai/akavelog/internal/apperr"
	"github.com/akave-ai/akavelog/internal/query"
	"github.com/akave-ai/akavelog/internal/response"
)

// handleQuery implements GET /api/log: a tenant-scoped, filter+paginate
// read.
func (s *Server) handleQuery(c echo.Context) error {
	tenant := tenantFrom(c)
	if tenant == nil {
		return response.Fail(c, apperr.New(apperr.CodeProjectRequired, "no tenant resolved"))
	}

	f := query.Filter{ProjectID: tenant.ID}

	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return response.Fail(c, apperr.New(apperr.CodeInvalidEventData, "limit must be an integer"))
		}
		f.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return response.Fail(c, apperr.New(apperr.CodeInvalidEventData, "offset must be an integer"))
		}
		f.Offset = n
	}
	if v := c.QueryParam("level"); v != "" {
		if !validLevelParam(v) {
			return response.Fail(c, apperr.New(apperr.CodeInvalidEventData, "level must be one of debug,info,warn,error,fatal"))
		}
		f.Level = v
	}
	if v := c.QueryParam("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return response.Fail(c, apperr.New(apperr.CodeInvalidEventData, "since must be an RFC-3339 instant"))
		}
		f.Since = &t
	}

	rows, err := s.queryService.Query(c.Request().Context(), f)
	if err != nil {
		return response.Fail(c, apperr.Wrap(apperr.CodeDBQueryFailed, "query failed", err))
	}
	return response.OK(c, rows)
}

func validLevelParam(l string) bool {
	switch l {
	case "debug", "info", "warn", "error", "fatal":
		return true
	}
	return false
}
