// Package http exposes the extraction pipeline over a small REST API.
package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"freight_server/core/domain"
	in "freight_server/core/port/in"
	"freight_server/core/port/out"
	"freight_server/core/service/ports"
	"freight_server/pkg/apperr"
	"freight_server/pkg/response"
)

// ExtractHandler handles HTTP requests for extraction operations
type ExtractHandler struct {
	extractor in.ExtractionUseCase
	repo      out.RecordRepository // nil when persistence is disabled
	catalog   *ports.Catalog
}

// NewExtractHandler creates a new ExtractHandler
func NewExtractHandler(extractor in.ExtractionUseCase, repo out.RecordRepository, catalog *ports.Catalog) *ExtractHandler {
	return &ExtractHandler{
		extractor: extractor,
		repo:      repo,
		catalog:   catalog,
	}
}

// Register registers extraction routes
func (h *ExtractHandler) Register(router fiber.Router) {
	router.Post("/extract", h.Extract)
	router.Post("/ports/resolve", h.ResolvePort)
	router.Get("/records", h.ListRecords)
}

type extractRequest struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Extract runs the pipeline on one email and returns its record.
func (h *ExtractHandler) Extract(c *fiber.Ctx) error {
	var req extractRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if req.ID == "" {
		return apperr.MissingField("id")
	}
	if strings.TrimSpace(req.Subject) == "" && strings.TrimSpace(req.Body) == "" {
		return apperr.ValidationFailed("subject and body are both empty")
	}

	record := h.extractor.ExtractOne(c.Context(), &domain.Email{
		ID:      req.ID,
		Subject: req.Subject,
		Body:    req.Body,
	})

	if h.repo != nil {
		if err := h.repo.Upsert(c.Context(), record); err != nil {
			return apperr.DatabaseError("upsert record", err)
		}
	}
	return response.OK(c, record)
}

type resolveRequest struct {
	Text string `json:"text"`
}

type resolveResponse struct {
	Code     *string `json:"code"`
	Name     *string `json:"name"`
	Resolved bool    `json:"resolved"`
}

// ResolvePort resolves one free-text port mention against the catalog.
func (h *ExtractHandler) ResolvePort(c *fiber.Ctx) error {
	var req resolveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperr.MissingField("text")
	}

	port := ports.Resolve(req.Text, h.catalog)
	resp := resolveResponse{Resolved: port.Resolved()}
	if port.Resolved() {
		resp.Code = domain.StringPtr(port.Code)
		resp.Name = domain.StringPtr(port.Name)
	}
	return response.OK(c, resp)
}

// ListRecords returns every persisted extraction result.
func (h *ExtractHandler) ListRecords(c *fiber.Ctx) error {
	if h.repo == nil {
		return apperr.NotFound("record store")
	}
	records, err := h.repo.List(c.Context())
	if err != nil {
		return apperr.DatabaseError("list records", err)
	}
	return response.OKWithMeta(c, records, &response.Meta{Total: len(records)})
}
