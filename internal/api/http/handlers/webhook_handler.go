package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/soportia/helpdesk/internal/api/dto"
	"github.com/soportia/helpdesk/internal/ingest"
	apperrors "github.com/soportia/helpdesk/pkg/util"
)

const incomingMessageEvent = "message.incoming"

// WebhookHandler receives channel callbacks from the WhatsApp bridge.
type WebhookHandler struct {
	pipeline *ingest.Pipeline
	validate *validator.Validate
}

// NewWebhookHandler constructs the handler.
func NewWebhookHandler(pipeline *ingest.Pipeline) *WebhookHandler {
	return &WebhookHandler{pipeline: pipeline, validate: validator.New()}
}

// HandleWhatsApp POST /webhooks/whatsapp.
func (h *WebhookHandler) HandleWhatsApp(c *fiber.Ctx) error {
	var envelope dto.WebhookEnvelope
	if err := c.BodyParser(&envelope); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(envelope); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	if envelope.EventName != incomingMessageEvent {
		return c.JSON(fiber.Map{"ok": true, "message": "event ignored"})
	}

	attachments := make([]ingest.IncomingAttachment, 0, len(envelope.Data.Attachment))
	for _, att := range envelope.Data.Attachment {
		attachments = append(attachments, ingest.IncomingAttachment{
			URL:      att.URL,
			MimeType: att.MimeType,
			FileName: att.FileName,
		})
	}

	// Fiber reuses the request buffer, copy before handing it downstream.
	rawPayload := append([]byte(nil), c.Body()...)

	result, err := h.pipeline.Process(c.UserContext(), ingest.InboundMessage{
		ExternalID:  envelope.Data.MessageID,
		From:        envelope.Data.From,
		SenderName:  envelope.Data.Name,
		Body:        envelope.Data.Body,
		Attachments: attachments,
		TempFileURL: envelope.Data.URLTempFile,
		RawPayload:  rawPayload,
		ReceivedAt:  time.Now(),
	})
	if err != nil {
		return err
	}

	if result.NoOp {
		return c.JSON(fiber.Map{"ok": true, "message": "empty message ignored"})
	}
	response := fiber.Map{
		"ok":            true,
		"ticketId":      result.TicketID,
		"ticketCode":    result.TicketCode,
		"newTicket":     result.NewTicket,
		"escalated":     result.Escalated,
		"autoReplySent": result.AutoReplySent,
	}
	if result.Idempotent {
		response["idempotent"] = true
	}
	return c.JSON(response)
}
