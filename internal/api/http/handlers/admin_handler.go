package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/guild-tickets/internal/auth"
	"github.com/spec-kit/guild-tickets/internal/service"
	apperrors "github.com/spec-kit/guild-tickets/pkg/util"
)

// AdminHandler exposes the administrative HTTP surface.
type AdminHandler struct {
	panel   *service.PanelService
	guildID string
}

// NewAdminHandler constructs handler.
func NewAdminHandler(panel *service.PanelService, guildID string) *AdminHandler {
	return &AdminHandler{panel: panel, guildID: guildID}
}

// PostPanel POST /admin/panel posts the intake panel into the help channel.
func (h *AdminHandler) PostPanel(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin subject required")
	}
	if err := h.panel.PostPanel(c.UserContext(), h.guildID, subject); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"posted_in": h.panel.HelpChannelName(),
	}})
}
