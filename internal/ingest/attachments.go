package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soportia/helpdesk/internal/domain"
	"github.com/soportia/helpdesk/internal/storage"
)

// IncomingAttachment is an ephemeral media reference from the channel.
type IncomingAttachment struct {
	URL      string
	MimeType string
	FileName string
}

// AttachmentResolver converts ephemeral media references into durable
// attachment records.
type AttachmentResolver struct {
	store  storage.MediaStore
	logger *zap.Logger
}

// NewAttachmentResolver builds the resolver.
func NewAttachmentResolver(store storage.MediaStore, logger *zap.Logger) *AttachmentResolver {
	return &AttachmentResolver{store: store, logger: logger}
}

// Resolve persists each attachment concurrently. A failed attachment falls
// back to its original URL when absolute, and is dropped otherwise; partial
// failure never aborts the message. tempFileURL is only considered when the
// attachment list is empty, mirroring the channel's delivery behavior.
func (r *AttachmentResolver) Resolve(ctx context.Context, attachments []IncomingAttachment, tempFileURL string) []domain.Attachment {
	if len(attachments) == 0 && tempFileURL != "" {
		if att := r.resolveOne(ctx, IncomingAttachment{URL: tempFileURL, FileName: "Archivo multimedia"}, "media"); att != nil {
			return []domain.Attachment{*att}
		}
		return nil
	}

	resolved := make([]*domain.Attachment, len(attachments))
	var wg sync.WaitGroup
	for i, att := range attachments {
		wg.Add(1)
		go func(i int, att IncomingAttachment) {
			defer wg.Done()
			resolved[i] = r.resolveOne(ctx, att, "attachment")
		}(i, att)
	}
	wg.Wait()

	result := make([]domain.Attachment, 0, len(resolved))
	for _, att := range resolved {
		if att != nil {
			result = append(result, *att)
		}
	}
	return result
}

func (r *AttachmentResolver) resolveOne(ctx context.Context, att IncomingAttachment, prefix string) *domain.Attachment {
	filename := fmt.Sprintf("%s-%d-%s.%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8], storage.FileExtension(att.URL))

	mediaType := att.MimeType
	if mediaType == "" {
		mediaType = storage.FileTypeFromURL(att.URL)
	}
	name := att.FileName
	if name == "" {
		name = "archivo"
	}

	url, err := r.store.Persist(ctx, att.URL, filename)
	if err != nil {
		if storage.IsAbsoluteURL(att.URL) {
			r.logger.Warn("media persistence failed, keeping original url",
				zap.String("url", att.URL), zap.Error(err))
			url = att.URL
		} else {
			r.logger.Warn("media persistence failed, dropping attachment",
				zap.String("url", att.URL), zap.Error(err))
			return nil
		}
	}

	return &domain.Attachment{URL: url, Type: mediaType, Name: name}
}
