package server

import (
	"encoding/json"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/akave-ai/akavelog/internal/apperr"
	"github.com/akave-ai/akavelog/internal/model"
	"github.com/akave-ai/akavelog/internal/response"
)

// handleIngest implements POST /api/log: decode the batch from the
// already-captured raw body, run it through the ingestion pipeline, and
// respond with {received, processed, requestId}.
func (s *Server) handleIngest(c echo.Context) error {
	tenant := tenantFrom(c)
	if tenant == nil {
		return response.Fail(c, apperr.New(apperr.CodeProjectRequired, "no tenant resolved"))
	}

	var batch model.Batch
	if err := json.Unmarshal(rawBody(c), &batch); err != nil {
		return response.Fail(c, apperr.Wrap(apperr.CodeInvalidEventData, "malformed JSON body", err))
	}

	result, err := s.pipeline.Ingest(c.Request().Context(), tenant, batch.Events, time.Now())
	if err != nil {
		return response.Fail(c, err)
	}
	return response.OK(c, result)
}
