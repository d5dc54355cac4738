package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-tickets/internal/domain"
	"github.com/spec-kit/guild-tickets/internal/interaction"
	"github.com/spec-kit/guild-tickets/internal/platform"
	"github.com/spec-kit/guild-tickets/internal/service"
	apperrors "github.com/spec-kit/guild-tickets/pkg/util"
)

// InteractionsHandler is the dispatch boundary for inbound platform
// interaction events.
type InteractionsHandler struct {
	tickets *service.TicketService
	panel   *service.PanelService
	logger  *zap.Logger
}

// NewInteractionsHandler constructs handler.
func NewInteractionsHandler(tickets *service.TicketService, panel *service.PanelService, logger *zap.Logger) *InteractionsHandler {
	return &InteractionsHandler{tickets: tickets, panel: panel, logger: logger}
}

// Handle POST /interactions. Every decoded event is answered with an
// interaction response; validation and authorization rejections become
// ephemeral replies, unexpected errors become a generic ephemeral failure
// and the service keeps serving.
func (h *InteractionsHandler) Handle(c *fiber.Ctx) error {
	ev, err := interaction.Parse(c.Body())
	if err != nil {
		return apperrors.NewValidationError("invalid interaction payload", nil)
	}

	switch ev.Kind {
	case interaction.KindPing:
		return c.JSON(interaction.Pong())
	case interaction.KindSetupCommand:
		return h.handleSetup(c, ev)
	case interaction.KindOpenButton:
		return h.handleOpenButton(c, ev)
	case interaction.KindDomainSelect:
		return h.handleDomainSelect(c, ev)
	case interaction.KindModalSubmit:
		return h.handleModalSubmit(c, ev)
	case interaction.KindCloseButton:
		return h.handleClose(c, ev)
	default:
		return c.JSON(interaction.EphemeralMessage("Unsupported interaction."))
	}
}

func (h *InteractionsHandler) handleSetup(c *fiber.Ctx, ev interaction.Event) error {
	if err := h.panel.PostPanel(c.UserContext(), ev.GuildID, ev.UserID); err != nil {
		return h.replyError(c, err)
	}
	return c.JSON(interaction.EphemeralMessage(
		fmt.Sprintf("✅ The ticket panel was posted in #%s", h.panel.HelpChannelName())))
}

func (h *InteractionsHandler) handleOpenButton(c *fiber.Ctx, ev interaction.Event) error {
	if !strings.EqualFold(ev.ChannelName, h.panel.HelpChannelName()) {
		return c.JSON(interaction.EphemeralMessage(
			fmt.Sprintf("❌ Open requests from the #%s channel only.", h.panel.HelpChannelName())))
	}
	return c.JSON(interaction.EphemeralMessage("Select the category:", domainSelectRow()))
}

func (h *InteractionsHandler) handleDomainSelect(c *fiber.Ctx, ev interaction.Event) error {
	if !domain.ValidDomain(ev.Domain) {
		return c.JSON(interaction.EphemeralMessage("Invalid selection."))
	}
	return c.JSON(interaction.ModalResponse(descriptionModal(ev.Domain)))
}

func (h *InteractionsHandler) handleModalSubmit(c *fiber.Ctx, ev interaction.Event) error {
	if !domain.ValidDomain(ev.Domain) {
		return c.JSON(interaction.EphemeralMessage("Unknown category."))
	}
	result, err := h.tickets.Open(c.UserContext(), service.OpenInput{
		GuildID:     ev.GuildID,
		OpenerID:    ev.UserID,
		Username:    ev.Username,
		Domain:      ev.Domain,
		Description: ev.Description,
	})
	if err != nil {
		return h.replyError(c, err)
	}
	return c.JSON(interaction.EphemeralMessage(
		fmt.Sprintf("✅ Channel created: <#%s>", result.Channel.ID)))
}

func (h *InteractionsHandler) handleClose(c *fiber.Ctx, ev interaction.Event) error {
	result, err := h.tickets.Close(c.UserContext(), service.CloseInput{
		GuildID:     ev.GuildID,
		RequesterID: ev.UserID,
		ChannelID:   ev.ChannelID,
	})
	if err != nil {
		return h.replyError(c, err)
	}
	if result.Archived {
		return c.JSON(interaction.EphemeralMessage("The ticket has been archived. ✅"))
	}
	return c.JSON(interaction.EphemeralMessage("The channel will be deleted in a few moments... ✅"))
}

// replyError converts rejections into ephemeral replies. The platform
// expects a well-formed interaction response either way, so errors never
// propagate past this boundary.
func (h *InteractionsHandler) replyError(c *fiber.Ctx, err error) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) && domainErr.HTTPStatus < 500 {
		return c.JSON(interaction.EphemeralMessage("❌ " + domainErr.Message))
	}
	h.logger.Error("interaction failed", zap.Error(err))
	return c.JSON(interaction.EphemeralMessage("An unexpected error occurred. Try again later."))
}

func domainSelectRow() platform.ActionRow {
	options := make([]platform.SelectOption, 0, len(domain.Domains))
	for _, d := range domain.Domains {
		options = append(options, platform.SelectOption{Label: d, Value: d})
	}
	return platform.ActionRow{Components: []platform.Component{{
		Kind:        platform.ComponentSelect,
		CustomID:    interaction.CustomIDSelectDomain,
		Placeholder: "Select the category",
		Options:     options,
	}}}
}

func descriptionModal(dom string) platform.Modal {
	return platform.Modal{
		CustomID: interaction.ModalCustomID(dom),
		Title:    "Ticket " + dom,
		Rows: []platform.ActionRow{{Components: []platform.Component{{
			Kind:      platform.ComponentTextInput,
			CustomID:  interaction.ModalFieldDesc,
			Label:     "Write a brief description of the problem.",
			Style:     2, // paragraph input
			MaxLength: domain.DisplayDescriptionLimit,
			Required:  true,
		}}}},
	}
}
