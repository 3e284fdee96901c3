package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mediavault/internal/archive"
)

func TestSimulated_FetchPublicReturnsDurableSamples(t *testing.T) {
	s := NewSimulated(0)
	s.now = func() time.Time { return time.UnixMilli(10 * int64(day/time.Millisecond)) }

	items, err := s.FetchPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, it := range items {
		assert.True(t, it.IsDurable(), it.ID)
		assert.NoError(t, it.Validate())
		assert.NotEmpty(t, it.Source())
	}
	assert.Greater(t, items[2].Timestamp, items[0].Timestamp)
}

func TestSimulated_HonorsCancellation(t *testing.T) {
	s := NewSimulated(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.FetchPublic(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorIs(t, s.Publish(ctx, archive.Item{ID: "x"}), context.DeadlineExceeded)
}

func TestSimulated_PublishAndUpload(t *testing.T) {
	s := NewSimulated(time.Millisecond)
	ctx := context.Background()

	it := archive.Item{ID: "x", Title: "t", Type: archive.TypeAudio, Content: archive.LocalBinary{Data: []byte("a")}}
	require.NoError(t, s.Publish(ctx, it))
	pub := s.Published()
	require.Len(t, pub, 1)
	assert.Nil(t, pub[0].Content)

	ref, err := s.UploadBinary(ctx, "song.mp3", archive.LocalBinary{Data: []byte("abc"), MimeHint: "audio/mpeg"})
	require.NoError(t, err)
	assert.Contains(t, ref, "song.mp3")
	obj, ok := s.Object(ref)
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), obj.Data)
}
