package market

import (
	"sync"
	"time"

	"github.com/adtgram/engine/src/utils/config"
	"github.com/adtgram/engine/src/utils/model"

	cache "github.com/patrickmn/go-cache"
)

const channelsCacheKey = "channels"

// Snapshot is the visible deal set for one scope
type Snapshot struct {
	Scope Scope
	Deals []model.Deal

	// Bumps only on manual replaces, silent ticks keep presentation
	// state untouched
	Generation uint64

	FetchedAt time.Time
}

// Store holds the per-scope snapshots the reconciler keeps eventually
// consistent with backend truth, plus a short-lived cache of the
// marketplace channel listing.
type Store struct {
	mtx       sync.RWMutex
	snapshots map[Scope]*Snapshot

	channels *cache.Cache
}

func NewStore(config *config.Config) (self *Store) {
	self = new(Store)
	self.snapshots = make(map[Scope]*Snapshot)
	self.channels = cache.New(config.Reconciler.ChannelCacheTTL, 2*config.Reconciler.ChannelCacheTTL)
	return
}

// Replace swaps the whole visible set for the scope. Full replace, not
// an incremental patch: deal counts per user are small and replacing
// removes merge conflicts entirely. Status changes relative to the
// previous snapshot come back as events.
func (self *Store) Replace(scope Scope, deals []model.Deal, manual bool) (changes []*model.DealEvent) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	previous := self.snapshots[scope]

	if previous != nil {
		known := make(map[int64]model.DealStatus, len(previous.Deals))
		for _, d := range previous.Deals {
			known[d.ID] = d.Status
		}
		for _, d := range deals {
			before, seen := known[d.ID]
			if seen && before == d.Status {
				continue
			}
			changes = append(changes, &model.DealEvent{
				DealID:   d.ID,
				Previous: before,
				Status:   d.Status,
				Role:     scope.Role,
				At:       time.Now(),
			})
		}
	}

	next := &Snapshot{
		Scope:     scope,
		Deals:     deals,
		FetchedAt: time.Now(),
	}
	if previous != nil {
		next.Generation = previous.Generation
	}
	if manual {
		next.Generation++
	}
	self.snapshots[scope] = next
	return
}

// Deals returns the current snapshot for the scope, nil when nothing
// was fetched yet
func (self *Store) Deals(scope Scope) *Snapshot {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	return self.snapshots[scope]
}

// Drop forgets the scope's snapshot
func (self *Store) Drop(scope Scope) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	delete(self.snapshots, scope)
}

func (self *Store) CachedChannels() ([]model.Channel, bool) {
	v, ok := self.channels.Get(channelsCacheKey)
	if !ok {
		return nil, false
	}
	return v.([]model.Channel), true
}

func (self *Store) CacheChannels(channels []model.Channel) {
	self.channels.SetDefault(channelsCacheKey, channels)
}

func (self *Store) InvalidateChannels() {
	self.channels.Delete(channelsCacheKey)
}
