package handlers

import (
  "net/http"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/services"
)

type DispatchHandler struct {
  log             *logger.Logger
  dispatchService services.DispatchService
}

func NewDispatchHandler(log *logger.Logger, dispatchService services.DispatchService) *DispatchHandler {
  return &DispatchHandler{
    log:             log.With("handler", "DispatchHandler"),
    dispatchService: dispatchService,
  }
}

// GET /api/dispatch/:date
func (dh *DispatchHandler) GetBoard(c *gin.Context) {
  dateStr := c.Param("date")
  date, err := time.Parse("2006-01-02", dateStr)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  board, err := dh.dispatchService.GetBoard(c.Request.Context(), date)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, board)
}

// POST /api/dispatch
func (dh *DispatchHandler) SaveBoard(c *gin.Context) {
  var input services.SaveBoardInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  result, err := dh.dispatchService.SaveBoard(c.Request.Context(), input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}
