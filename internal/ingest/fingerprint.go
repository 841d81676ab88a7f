package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// fingerprintBucket is the coarse time bucket applied when the channel does
// not supply its own message id. Retries of the same delivery land in the
// same bucket; genuinely new messages with identical content rarely do.
const fingerprintBucket = time.Minute

// Fingerprint derives the deduplication key for an inbound message. The
// channel's own message id is authoritative when present; otherwise the key
// is synthesized from the sender address, a coarse arrival bucket and a hash
// of the full content: body plus media references, so two attachment-only
// deliveries with distinct media never collide.
func Fingerprint(externalID, sender, body string, mediaRefs []string, receivedAt time.Time) string {
	if externalID != "" {
		return externalID
	}
	h := sha256.New()
	h.Write([]byte(body))
	for _, ref := range mediaRefs {
		h.Write([]byte{0})
		h.Write([]byte(ref))
	}
	sum := h.Sum(nil)
	bucket := receivedAt.UTC().Truncate(fingerprintBucket).Unix()
	return fmt.Sprintf("%s-%d-%s", sender, bucket, hex.EncodeToString(sum[:8]))
}
