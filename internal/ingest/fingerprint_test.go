package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintUsesChannelIDWhenPresent(t *testing.T) {
	got := Fingerprint("wamid.123", "+5491155550000", "hola", nil, time.Now())
	assert.Equal(t, "wamid.123", got)
}

func TestFingerprintStableWithinBucket(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 30, 5, 0, time.UTC)
	retry := base.Add(40 * time.Second)

	first := Fingerprint("", "+5491155550000", "se cayo el sistema", nil, base)
	second := Fingerprint("", "+5491155550000", "se cayo el sistema", nil, retry)

	assert.Equal(t, first, second)
}

func TestFingerprintChangesAcrossBuckets(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 30, 5, 0, time.UTC)
	later := base.Add(2 * time.Minute)

	first := Fingerprint("", "+5491155550000", "se cayo el sistema", nil, base)
	second := Fingerprint("", "+5491155550000", "se cayo el sistema", nil, later)

	assert.NotEqual(t, first, second)
}

func TestFingerprintChangesWithBody(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 30, 5, 0, time.UTC)

	first := Fingerprint("", "+5491155550000", "primer mensaje", nil, at)
	second := Fingerprint("", "+5491155550000", "segundo mensaje", nil, at)

	assert.NotEqual(t, first, second)
}

func TestFingerprintChangesWithMediaRefs(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 30, 5, 0, time.UTC)

	first := Fingerprint("", "+5491155550000", "", []string{"https://cdn.example/tmp/a.jpg"}, at)
	second := Fingerprint("", "+5491155550000", "", []string{"https://cdn.example/tmp/b.jpg"}, at)

	assert.NotEqual(t, first, second, "distinct media in the same bucket must not collide")
}

func TestFingerprintStableForMediaRetry(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 30, 5, 0, time.UTC)
	refs := []string{"https://cdn.example/tmp/a.jpg"}

	first := Fingerprint("", "+5491155550000", "", refs, base)
	second := Fingerprint("", "+5491155550000", "", refs, base.Add(20*time.Second))

	assert.Equal(t, first, second)
}
