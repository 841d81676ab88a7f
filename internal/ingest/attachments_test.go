package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	err   error
	calls []string
}

func (s *fakeStore) Persist(_ context.Context, srcURL, filename string) (string, error) {
	s.calls = append(s.calls, srcURL)
	if s.err != nil {
		return "", s.err
	}
	return "https://blob.example/" + filename, nil
}

func TestResolvePersistsAttachments(t *testing.T) {
	store := &fakeStore{}
	resolver := NewAttachmentResolver(store, zap.NewNop())

	got := resolver.Resolve(context.Background(), []IncomingAttachment{
		{URL: "https://cdn.example/tmp/a.png", MimeType: "image", FileName: "captura.png"},
	}, "")

	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0].URL, "https://blob.example/attachment-"))
	assert.True(t, strings.HasSuffix(got[0].URL, ".png"))
	assert.Equal(t, "image", got[0].Type)
	assert.Equal(t, "captura.png", got[0].Name)
}

func TestResolveFallsBackToAbsoluteURLOnFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("blob storage down")}
	resolver := NewAttachmentResolver(store, zap.NewNop())

	got := resolver.Resolve(context.Background(), []IncomingAttachment{
		{URL: "https://cdn.example/tmp/a.pdf"},
	}, "")

	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example/tmp/a.pdf", got[0].URL)
	assert.Equal(t, "pdf", got[0].Type)
	assert.Equal(t, "archivo", got[0].Name)
}

func TestResolveDropsRelativeURLOnFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("blob storage down")}
	resolver := NewAttachmentResolver(store, zap.NewNop())

	got := resolver.Resolve(context.Background(), []IncomingAttachment{
		{URL: "/tmp/local-only.jpg"},
	}, "")

	assert.Empty(t, got)
}

func TestResolvePartialFailureKeepsTheRest(t *testing.T) {
	store := &fakeStore{}
	resolver := NewAttachmentResolver(store, zap.NewNop())

	got := resolver.Resolve(context.Background(), []IncomingAttachment{
		{URL: "https://cdn.example/tmp/a.png"},
		{URL: "https://cdn.example/tmp/b.mp4"},
	}, "")

	assert.Len(t, got, 2)
	assert.Len(t, store.calls, 2)
}

func TestResolveTempFileOnlyWhenListEmpty(t *testing.T) {
	store := &fakeStore{}
	resolver := NewAttachmentResolver(store, zap.NewNop())

	got := resolver.Resolve(context.Background(), nil, "https://cdn.example/tmp/voice.ogg")
	require.Len(t, got, 1)
	assert.Equal(t, "Archivo multimedia", got[0].Name)
	assert.Equal(t, "audio", got[0].Type)

	store.calls = nil
	got = resolver.Resolve(context.Background(), []IncomingAttachment{
		{URL: "https://cdn.example/tmp/a.png"},
	}, "https://cdn.example/tmp/voice.ogg")
	require.Len(t, got, 1)
	assert.Equal(t, []string{"https://cdn.example/tmp/a.png"}, store.calls)
}
