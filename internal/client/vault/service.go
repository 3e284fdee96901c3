package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/client/feed"
	"github.com/dmitrijs2005/mediavault/internal/client/localdb"
	"github.com/dmitrijs2005/mediavault/internal/client/reconcile"
	"github.com/dmitrijs2005/mediavault/internal/client/rehydrate"
	"github.com/dmitrijs2005/mediavault/internal/logging"
)

// Status mirrors the shell's sync indicator.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusDone    Status = "done"
)

const (
	defaultFetchTimeout   = 10 * time.Second
	defaultPublishTimeout = 30 * time.Second
)

// Snapshot is an immutable view of the archive.
type Snapshot struct {
	// Items is the reconciled collection, newest first.
	Items   []archive.Item
	Folders []archive.Folder
	// Degraded is true when writes only live in memory.
	Degraded bool
	Status   Status
	// Notices are soft warnings not yet taken with TakeNotices.
	Notices []string
}

// Options configures a Service.
type Options struct {
	Store localdb.Store
	// Feed may be nil, in which case the archive is local only.
	Feed   feed.Adapter
	Logger logging.Logger
	// FetchTimeout bounds the remote fetch during Load.
	FetchTimeout time.Duration
	// PublishTimeout bounds each background publish.
	PublishTimeout time.Duration
	// Publish announces every newly added durable item to the feed.
	Publish bool
}

// Service is the archive's repository object. It is safe for concurrent use.
type Service struct {
	feed           feed.Adapter
	refs           *rehydrate.Registry
	log            logging.Logger
	fetchTimeout   time.Duration
	publishTimeout time.Duration
	publish        bool

	// writeMu serializes store I/O: loads, mutations, import and export.
	writeMu sync.Mutex
	store   localdb.Store

	// mu guards the cache below.
	mu      sync.RWMutex
	local   []archive.Item
	remote  []archive.Item
	hidden  map[string]struct{}
	folders []archive.Folder
	merged  []archive.Item
	status  Status
	notices []string
	subs    map[int]chan Snapshot
	nextSub int
	closed  bool

	bgCtx    context.Context
	bgCancel context.CancelFunc
	bg       sync.WaitGroup
}

// New builds a Service around an open store. Call Load to populate it.
func New(opts Options) *Service {
	s := &Service{
		store:          opts.Store,
		feed:           opts.Feed,
		refs:           rehydrate.NewRegistry(),
		log:            opts.Logger,
		fetchTimeout:   opts.FetchTimeout,
		publishTimeout: opts.PublishTimeout,
		publish:        opts.Publish,
		hidden:         make(map[string]struct{}),
		status:         StatusIdle,
		subs:           make(map[int]chan Snapshot),
	}
	if s.store == nil {
		s.store = localdb.NewMemoryStore()
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	if s.fetchTimeout <= 0 {
		s.fetchTimeout = defaultFetchTimeout
	}
	if s.publishTimeout <= 0 {
		s.publishTimeout = defaultPublishTimeout
	}
	s.bgCtx, s.bgCancel = context.WithCancel(context.Background())
	return s
}

// Snapshot returns the current view.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Items returns the reconciled items matching f, newest first.
func (s *Service) Items(f archive.Filter) []archive.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f.Apply(s.merged)
}

// Item looks an id up in the reconciled view.
func (s *Service) Item(id string) (archive.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.merged {
		if it.ID == id {
			return it, true
		}
	}
	return archive.Item{}, false
}

// Folders returns the folders in creation order.
func (s *Service) Folders() []archive.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]archive.Folder(nil), s.folders...)
}

// TakeNotices returns and clears the pending soft warnings.
func (s *Service) TakeNotices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notices
	s.notices = nil
	return n
}

// Subscribe returns a channel that receives a Snapshot after every change
// and a function that ends the subscription. Only the newest snapshot is
// kept for a slow reader.
func (s *Service) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// ErrClosed is returned by operations on a closed Service.
var ErrClosed = errors.New("vault is closed")

// Close waits for in-flight store writes, stops background publishes,
// revokes every session reference and closes the store.
func (s *Service) Close() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	s.bgCancel()
	s.bg.Wait()

	if n := s.refs.RevokeAll(); n > 0 {
		s.log.Debug(context.Background(), "revoked session references", "count", n)
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

func (s *Service) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *Service) snapshotLocked() Snapshot {
	return Snapshot{
		Items:    append([]archive.Item(nil), s.merged...),
		Folders:  append([]archive.Folder(nil), s.folders...),
		Degraded: !s.store.Durable(),
		Status:   s.status,
		Notices:  append([]string(nil), s.notices...),
	}
}

// remergeLocked rebuilds the reconciled view and notifies subscribers.
func (s *Service) remergeLocked() {
	remote := s.remote
	if len(s.hidden) > 0 {
		remote = make([]archive.Item, 0, len(s.remote))
		for _, it := range s.remote {
			if _, ok := s.hidden[it.ID]; !ok {
				remote = append(remote, it)
			}
		}
	}
	s.merged = reconcile.Merge(s.local, remote)
	s.notifyLocked()
}

func (s *Service) setStatusLocked(st Status) {
	s.status = st
	s.notifyLocked()
}

func (s *Service) notifyLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Service) noticeLocked(format string, args ...any) {
	s.notices = append(s.notices, fmt.Sprintf(format, args...))
}

func indexOf(its []archive.Item, id string) int {
	for i, it := range its {
		if it.ID == id {
			return i
		}
	}
	return -1
}
