// Package handler exposes the training HTTP endpoints.
package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"convosell_backend/internal/training/repository"
	"convosell_backend/internal/training/service"
	"convosell_backend/internal/training/transport"
	"convosell_backend/platform/httpkit"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Handler serves the training endpoints.
type Handler struct {
	svc      *service.Service
	validate *validator.Validator
	log      *logger.Logger
}

// New creates the training handler.
func New(svc *service.Service, validate *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, validate: validate, log: log}
}

// UploadPDF handles POST /training/pdf. Multipart form with an agentId field
// and a file field.
func (h *Handler) UploadPDF(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	agentID, err := uuid.Parse(c.PostForm("agentId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "could not read file", nil)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "could not read file", nil)
		return
	}

	receipt, err := h.svc.TrainFromPDF(c.Request.Context(), identity.UserID(), agentID, fileHeader.Filename, content)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusAccepted, toReceiptResponse(receipt))
}

// TrainFromURL handles POST /training/url.
func (h *Handler) TrainFromURL(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	var req transport.TrainFromURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	receipt, err := h.svc.TrainFromURL(c.Request.Context(), identity.UserID(), agentID, req.URL)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusAccepted, toReceiptResponse(receipt))
}

// TrainFromFAQ handles POST /training/faq.
func (h *Handler) TrainFromFAQ(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	var req transport.TrainFromFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	items := make([]service.FAQItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.FAQItem{Question: item.Question, Answer: item.Answer})
	}

	receipt, err := h.svc.TrainFromFAQ(c.Request.Context(), identity.UserID(), agentID, items)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusAccepted, toReceiptResponse(receipt))
}

// TrainFromText handles POST /training/text.
func (h *Handler) TrainFromText(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	var req transport.TrainFromTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	receipt, err := h.svc.TrainFromText(c.Request.Context(), identity.UserID(), agentID, req.Text)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusAccepted, toReceiptResponse(receipt))
}

// ListData handles GET /training/:agentID/data.
func (h *Handler) ListData(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	agentID, err := uuid.Parse(c.Param("agentID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	records, err := h.svc.List(c.Request.Context(), identity.UserID(), agentID)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	responses := make([]transport.TrainingDataResponse, 0, len(records))
	for i := range records {
		responses = append(responses, toRecordResponse(&records[i]))
	}
	httpkit.OK(c, http.StatusOK, responses)
}

// ClearData handles DELETE /training/:agentID/data.
func (h *Handler) ClearData(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	agentID, err := uuid.Parse(c.Param("agentID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	if err := h.svc.Clear(c.Request.Context(), identity.UserID(), agentID); err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, gin.H{"message": "training data cleared"})
}

func toReceiptResponse(receipt *service.Receipt) transport.TrainingReceiptResponse {
	return transport.TrainingReceiptResponse{
		TrainingDataID: receipt.TrainingDataID.String(),
		Status:         receipt.Status,
		ChunksCreated:  receipt.ChunksCreated,
		Message:        receipt.Message,
	}
}

func toRecordResponse(rec *repository.Record) transport.TrainingDataResponse {
	resp := transport.TrainingDataResponse{
		ID:         rec.ID.String(),
		AgentID:    rec.AgentID.String(),
		SourceType: rec.SourceType,
		Status:     rec.Status,
		CreatedAt:  rec.CreatedAt,
	}
	if chunks, ok := rec.Metadata["chunks_created"].(float64); ok {
		resp.ChunksCreated = int(chunks)
	}
	if errMsg, ok := rec.Metadata["error"].(string); ok {
		resp.Error = errMsg
	}
	return resp
}
