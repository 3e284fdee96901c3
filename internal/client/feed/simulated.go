package feed

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/mediavault/internal/archive"
)

// DefaultLatency is the artificial delay of every Simulated call.
const DefaultLatency = 1200 * time.Millisecond

const simulatedObjectBase = "https://simulated.mediavault.local/objects/"

const day = 24 * time.Hour

// Simulated is an in-process feed with a fixed public collection. Publish and
// UploadBinary always succeed after the delay unless ctx ends first.
type Simulated struct {
	latency time.Duration
	now     func() time.Time

	mu        sync.Mutex
	published []archive.Item
	objects   map[string]archive.LocalBinary
}

func NewSimulated(latency time.Duration) *Simulated {
	return &Simulated{
		latency: latency,
		now:     time.Now,
		objects: make(map[string]archive.LocalBinary),
	}
}

func (s *Simulated) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Simulated) FetchPublic(ctx context.Context) ([]archive.Item, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	now := s.now()
	ts := func(ago time.Duration) int64 { return now.Add(-ago).UnixMilli() }

	return []archive.Item{
		{
			ID: "public-1", Title: "Brand Movie", Category: "Branding", Type: archive.TypeVideo,
			Image:     "https://images.unsplash.com/photo-1492691527719-9d1e07e534b4?auto=format&fit=crop&w=800&q=80",
			Timestamp: ts(2 * day),
		},
		{
			ID: "public-2", Title: "Archive System Plan v1.2", Category: "Planning", Type: archive.TypeDocument,
			Image:     "https://images.unsplash.com/photo-1517842645767-c639042777db?auto=format&fit=crop&w=800&q=80",
			Timestamp: ts(5 * day),
		},
		{
			ID: "public-3", Title: "Minimalist Interior", Category: "Media", Type: archive.TypePhoto,
			Image:     "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?auto=format&fit=crop&w=800&q=80",
			Content:   archive.RemoteContent{URL: "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?auto=format&fit=crop&w=800&q=80"},
			Timestamp: ts(1 * day),
		},
	}, nil
}

func (s *Simulated) Publish(ctx context.Context, it archive.Item) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.published = append(s.published, it.Metadata())
	s.mu.Unlock()
	return nil
}

func (s *Simulated) UploadBinary(ctx context.Context, name string, bin archive.LocalBinary) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	ref := simulatedObjectBase + uuid.NewString() + "/" + url.PathEscape(name)
	s.mu.Lock()
	s.objects[ref] = bin.Clone()
	s.mu.Unlock()
	return ref, nil
}

// Published returns the metadata announced so far.
func (s *Simulated) Published() []archive.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]archive.Item(nil), s.published...)
}

// Object returns a payload previously stored by UploadBinary.
func (s *Simulated) Object(ref string) (archive.LocalBinary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[ref]
	return b, ok
}
