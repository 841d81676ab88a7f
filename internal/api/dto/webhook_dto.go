package dto

import "encoding/json"

// WebhookEnvelope is the BuilderBot event envelope.
type WebhookEnvelope struct {
	EventName string      `json:"eventName" validate:"required"`
	Data      WebhookData `json:"data" validate:"required"`
}

// WebhookData carries the inbound message fields.
type WebhookData struct {
	Body        string              `json:"body"`
	Name        string              `json:"name"`
	From        string              `json:"from" validate:"required"`
	Attachment  []WebhookAttachment `json:"attachment"`
	URLTempFile string              `json:"urlTempFile"`
	ProjectID   string              `json:"projectId"`
	MessageID   string              `json:"messageId"`
}

// WebhookAttachment accepts both the object form and the bare-URL string
// form the channel is known to emit.
type WebhookAttachment struct {
	URL      string `json:"url"`
	MimeType string `json:"mimetype"`
	FileName string `json:"filename"`
}

// UnmarshalJSON tolerates a plain string in place of the attachment object.
func (a *WebhookAttachment) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		a.URL = raw
		return nil
	}
	type plain WebhookAttachment
	return json.Unmarshal(data, (*plain)(a))
}
