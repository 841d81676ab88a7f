package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soportia/helpdesk/internal/config"
	"github.com/soportia/helpdesk/internal/domain"
	"github.com/soportia/helpdesk/internal/events"
	"github.com/soportia/helpdesk/internal/messaging"
	"github.com/soportia/helpdesk/internal/observability"
	"github.com/soportia/helpdesk/internal/repository"
)

// InboundMessage is the channel-agnostic shape of one inbound delivery.
type InboundMessage struct {
	ExternalID  string
	From        string
	SenderName  string
	Body        string
	Attachments []IncomingAttachment
	TempFileURL string
	RawPayload  json.RawMessage
	ReceivedAt  time.Time
}

// mediaRefs lists the media identity of the delivery for fingerprinting,
// mirroring the resolver's rule that tempFileURL only counts when the
// attachment list is empty.
func (m InboundMessage) mediaRefs() []string {
	refs := make([]string, 0, len(m.Attachments)+1)
	for _, att := range m.Attachments {
		refs = append(refs, att.URL)
	}
	if len(refs) == 0 && m.TempFileURL != "" {
		refs = append(refs, m.TempFileURL)
	}
	return refs
}

// Result describes the outcome of one pipeline run.
type Result struct {
	TicketID      string
	TicketCode    string
	NewTicket     bool
	Escalated     bool
	AutoReplySent bool
	Idempotent    bool
	NoOp          bool
}

// Dependencies bundles the pipeline's collaborators.
type Dependencies struct {
	Customers   repository.CustomerRepository
	Tickets     repository.TicketRepository
	Messages    repository.MessageRepository
	Events      repository.TicketEventRepository
	Replay      repository.ReplayCache
	Attachments *AttachmentResolver
	Sender      messaging.Sender
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
}

// Pipeline ingests inbound customer messages: normalize, deduplicate,
// thread, classify, escalate, persist, audit and best-effort auto-reply.
type Pipeline struct {
	customers   repository.CustomerRepository
	tickets     repository.TicketRepository
	messages    repository.MessageRepository
	events      repository.TicketEventRepository
	replay      repository.ReplayCache
	attachments *AttachmentResolver
	sender      messaging.Sender
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	cfg         config.PipelineConfig
	now         func() time.Time
}

// NewPipeline constructs the pipeline.
func NewPipeline(cfg config.PipelineConfig, deps Dependencies, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		customers:   deps.Customers,
		tickets:     deps.Tickets,
		messages:    deps.Messages,
		events:      deps.Events,
		replay:      deps.Replay,
		attachments: deps.Attachments,
		sender:      deps.Sender,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Process runs the full ingestion pipeline for one inbound delivery.
// Failures of downstream side effects (media persistence, auto-reply) are
// degraded and logged; only core write-path errors propagate so the channel
// can retry true persistence failures.
func (p *Pipeline) Process(ctx context.Context, in InboundMessage) (*Result, error) {
	now := in.ReceivedAt
	if now.IsZero() {
		now = p.now()
	}

	normalized := Normalize(in.Body, in.SenderName)

	var resolved []domain.Attachment
	if p.attachments != nil {
		resolved = p.attachments.Resolve(ctx, in.Attachments, in.TempFileURL)
	}

	if normalized.Body == "" && len(resolved) == 0 {
		p.logger.Info("empty inbound message, ignoring", zap.String("from", in.From))
		p.metrics.RecordPipeline("noop")
		return &Result{NoOp: true}, nil
	}

	fingerprint := Fingerprint(in.ExternalID, in.From, in.Body, in.mediaRefs(), now)

	if replay, err := p.replayedResult(ctx, fingerprint); err != nil {
		return nil, err
	} else if replay != nil {
		p.metrics.RecordPipeline("idempotent")
		return replay, nil
	}

	reserved, err := p.reserve(ctx, fingerprint)
	if err == nil && !reserved {
		// Another run holds the fingerprint. Answer from its durable record
		// when one is visible. Without a record nothing has been stored yet,
		// so fail the run and let the channel retry: a committed winner turns
		// the retry into a replay, a crashed one gets the message re-ingested
		// once the reservation expires.
		if replay, err := p.replayedResult(ctx, fingerprint); err == nil && replay != nil {
			p.metrics.RecordPipeline("idempotent")
			return replay, nil
		}
		p.metrics.RecordPipeline("failed")
		return nil, fmt.Errorf("message %s reserved by a concurrent run with no durable record yet", fingerprint)
	}

	result, err := p.ingest(ctx, in, normalized, resolved, fingerprint, now)
	if err != nil {
		p.release(ctx, fingerprint)
		p.metrics.RecordPipeline("failed")
		return nil, err
	}
	if result.Idempotent {
		p.metrics.RecordPipeline("idempotent")
		return result, nil
	}
	p.metrics.RecordPipeline("processed")
	if result.Escalated {
		p.metrics.RecordPipeline("escalated")
	}

	// Durable state is committed; the reply is a decoupled best-effort
	// side effect and must never fail the webhook.
	p.dispatchReply(ctx, in.From, normalized.Body, result)
	if result.AutoReplySent {
		p.metrics.RecordPipeline("auto_reply")
	}

	return result, nil
}

func (p *Pipeline) ingest(ctx context.Context, in InboundMessage, normalized Normalized, resolved []domain.Attachment, fingerprint string, now time.Time) (*Result, error) {
	customer, err := p.customers.UpsertByPhone(ctx, in.From, normalized.Organization)
	if err != nil {
		return nil, fmt.Errorf("upsert customer: %w", err)
	}

	cutoff := now.Add(-p.cfg.ThreadWindow())
	fresh := &domain.Ticket{
		Code:        domain.GenerateTicketCode(now),
		CustomerID:  customer.ID,
		ContactName: normalized.Contact,
		Title:       domain.TitleFromBody(normalized.Body),
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityNormal,
		Category:    FirstPassCategory(normalized.Body),
		Channel:     domain.ChannelWhatsApp,
	}
	ticket, created, err := p.tickets.FindOrCreateActive(ctx, customer.ID, cutoff, fresh)
	if err != nil {
		return nil, fmt.Errorf("resolve ticket: %w", err)
	}
	if created {
		p.logger.Info("ticket created",
			zap.String("code", ticket.Code),
			zap.String("company", normalized.Organization),
			zap.String("contact", normalized.Contact))
		p.publish(ctx, events.Event{
			Type:     events.EventTicketCreated,
			TicketID: ticket.ID,
			Payload: events.TicketCreatedPayload{
				Code:     ticket.Code,
				Priority: ticket.Priority,
				Category: ticket.Category,
				Title:    ticket.Title,
			},
		})
	}

	classification := Classify(normalized.Body, ticket.Priority, ticket.Category)

	priorMessages, err := p.messages.CountByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}

	escalated, trigger := ShouldEscalate(EscalationInput{
		Body:          normalized.Body,
		Priority:      classification.Priority,
		PriorMessages: priorMessages,
	}, p.cfg.EscalationMsgCount)

	body := normalized.Body
	if body == "" {
		body = "[Archivo adjunto]"
	}
	externalID := fingerprint
	msg := &domain.Message{
		TicketID:          ticket.ID,
		Direction:         domain.DirectionInbound,
		Sender:            domain.SenderCustomer,
		Body:              body,
		Attachments:       resolved,
		RawPayload:        in.RawPayload,
		ExternalMessageID: &externalID,
	}
	if err := p.messages.Create(ctx, msg); err != nil {
		if errors.Is(err, domain.ErrDuplicateMessage) {
			// Concurrent run won the unique-index race; report its outcome.
			return &Result{TicketID: ticket.ID, TicketCode: ticket.Code, Idempotent: true}, nil
		}
		return nil, fmt.Errorf("persist message: %w", err)
	}

	ticket.Priority = classification.Priority
	ticket.Category = classification.Category
	if escalated {
		ticket.Status = EscalationStatus(ticket.Status)
	}
	ticket.LastMessageAt = now
	if err := p.tickets.Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}

	eventType := domain.EventTypeAutoReply
	if escalated {
		eventType = domain.EventTypeEscalated
	}
	audit := &domain.TicketEvent{
		TicketID: ticket.ID,
		Type:     eventType,
		Payload: map[string]any{
			"message":   normalized.Body,
			"company":   normalized.Organization,
			"contact":   normalized.Contact,
			"escalated": escalated,
		},
	}
	if err := p.events.Append(ctx, audit); err != nil {
		return nil, fmt.Errorf("append audit event: %w", err)
	}

	p.publish(ctx, events.Event{
		Type:     events.EventMessageReceived,
		TicketID: ticket.ID,
		Payload: events.MessageReceivedPayload{
			MessageID:   msg.ID,
			CustomerID:  customer.ID,
			BodyPreview: preview(normalized.Body, 120),
			Attachments: len(resolved),
		},
	})
	if escalated {
		p.publish(ctx, events.Event{
			Type:     events.EventTicketEscalated,
			TicketID: ticket.ID,
			Payload: events.TicketEscalatedPayload{
				Code:      ticket.Code,
				Priority:  ticket.Priority,
				MsgCount:  priorMessages + 1,
				Triggered: trigger,
			},
		})
	}

	return &Result{
		TicketID:   ticket.ID,
		TicketCode: ticket.Code,
		NewTicket:  created,
		Escalated:  escalated,
	}, nil
}

func (p *Pipeline) dispatchReply(ctx context.Context, recipient, body string, result *Result) {
	if !p.cfg.AutoReplyEnabled || p.sender == nil {
		return
	}
	text, ok := DecideReply(result.Escalated, RequestsAgent(body), result.NewTicket, result.TicketCode)
	if !ok {
		return
	}

	if err := p.sender.Send(ctx, recipient, text); err != nil {
		p.logger.Warn("auto-reply dispatch failed",
			zap.String("recipient", recipient),
			zap.String("ticket_code", result.TicketCode),
			zap.Error(err))
		return
	}
	result.AutoReplySent = true

	raw, _ := json.Marshal(map[string]any{"autoReply": true, "timestamp": p.now().UTC().Format(time.RFC3339)})
	outbound := &domain.Message{
		TicketID:   result.TicketID,
		Direction:  domain.DirectionOutbound,
		Sender:     domain.SenderBot,
		Body:       text,
		RawPayload: raw,
	}
	if err := p.messages.Create(ctx, outbound); err != nil {
		p.logger.Warn("failed to record auto-reply message", zap.Error(err))
	}
	p.publish(ctx, events.Event{
		Type:     events.EventAutoReplySent,
		TicketID: result.TicketID,
		Payload: events.AutoReplySentPayload{
			Code:      result.TicketCode,
			Recipient: recipient,
			Text:      text,
		},
	})
}

// replayedResult looks the fingerprint up in durable storage and builds the
// idempotent response when it was already recorded.
func (p *Pipeline) replayedResult(ctx context.Context, fingerprint string) (*Result, error) {
	existing, err := p.messages.FindByExternalID(ctx, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("lookup fingerprint: %w", err)
	}
	if existing == nil {
		return nil, nil
	}
	result := &Result{TicketID: existing.TicketID, Idempotent: true}
	if ticket, err := p.tickets.GetByID(ctx, existing.TicketID); err == nil {
		result.TicketCode = ticket.Code
	}
	p.logger.Info("duplicate delivery, replaying result",
		zap.String("fingerprint", fingerprint),
		zap.String("ticket_id", existing.TicketID))
	return result, nil
}

// reserve claims the fingerprint in the replay cache. Cache outages degrade
// to the storage-level unique index rather than blocking ingestion.
func (p *Pipeline) reserve(ctx context.Context, fingerprint string) (bool, error) {
	if p.replay == nil {
		return true, nil
	}
	reserved, err := p.replay.Reserve(ctx, fingerprint, p.cfg.IdempotencyTTL())
	if err != nil {
		p.logger.Warn("replay cache unavailable", zap.Error(err))
		return true, err
	}
	return reserved, nil
}

func (p *Pipeline) release(ctx context.Context, fingerprint string) {
	if p.replay == nil {
		return
	}
	if err := p.replay.Release(ctx, fingerprint); err != nil {
		p.logger.Warn("failed to release fingerprint reservation", zap.Error(err))
	}
}

func (p *Pipeline) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	_ = p.dispatcher.Publish(ctx, event)
}

// preview truncates on rune boundaries so multi-byte text never yields an
// invalid UTF-8 payload.
func preview(body string, max int) string {
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
