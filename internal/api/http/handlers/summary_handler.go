package handlers

import (
	"context"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/department-summary/internal/api/dto"
	"github.com/spec-kit/department-summary/internal/domain"
	"github.com/spec-kit/department-summary/internal/view"
	apperrors "github.com/spec-kit/department-summary/pkg/util"
)

// SummaryReader is the read and refresh surface of the summary service.
type SummaryReader interface {
	Refresh(ctx context.Context) (*domain.Snapshot, error)
	Current(ctx context.Context) (*domain.Snapshot, error)
	Department(ctx context.Context, name string) (*domain.DepartmentSummary, error)
}

// SummaryHandler exposes the department summary.
type SummaryHandler struct {
	summaries SummaryReader
	title     string
}

// NewSummaryHandler constructs handler.
func NewSummaryHandler(summaries SummaryReader, title string) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, title: title}
}

// Get handles GET /summary.
func (h *SummaryHandler) Get(c *fiber.Ctx) error {
	snap, err := h.summaries.Current(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": snap})
}

// GetDepartment handles GET /summary/departments/:name.
func (h *SummaryHandler) GetDepartment(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return apperrors.NewValidationError("invalid department name", nil)
	}
	dept, err := h.summaries.Department(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DepartmentResponse{Name: name, Summary: dept}})
}

// Refresh handles POST /summary/refresh.
func (h *SummaryHandler) Refresh(c *fiber.Ctx) error {
	snap, err := h.summaries.Refresh(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRefreshResponse(snap)})
}

// Page handles GET / with the HTML rendering. Before the first cycle the
// page is rendered empty, matching a display that simply shows nothing.
func (h *SummaryHandler) Page(c *fiber.Ctx) error {
	snap, err := h.summaries.Current(c.UserContext())
	if err != nil {
		if !apperrors.HasCode(err, apperrors.CodeSummaryUnavailable) {
			return err
		}
		snap = nil
	}
	c.Type("html", "utf-8")
	return view.SummaryPage(h.title, snap).Render(c.UserContext(), c.Response().BodyWriter())
}
