package retry

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/zeusync/nsqcore/internal/core/backoff"
)

const defaultShardCount = 16

// ConnID identifies one logical connection and therefore one backoff timer.
type ConnID string

type conn struct {
	addr  string
	timer *backoff.Timer
}

// shard guards a slice of the connection table with its own mutex
type shard struct {
	mx    sync.Mutex
	conns map[ConnID]*conn
}

// Registry owns one backoff timer per open connection. Timer access goes
// through With, which holds the owning shard's lock for the duration of the
// call, so the timers themselves need no locking.
type Registry struct {
	shards   []*shard
	timerCfg backoff.Config
	timerOpt []backoff.Option
}

// NewRegistry builds timers for new connections from cfg, with opts applied
// after the config.
func NewRegistry(cfg backoff.Config, opts ...backoff.Option) *Registry {
	r := &Registry{
		shards:   make([]*shard, defaultShardCount),
		timerCfg: cfg,
		timerOpt: opts,
	}
	for i := range r.shards {
		r.shards[i] = &shard{conns: make(map[ConnID]*conn)}
	}
	return r
}

func (r *Registry) shardFor(id ConnID) *shard {
	return r.shards[xxhash.Sum64String(string(id))%uint64(len(r.shards))]
}

// Open registers a connection to addr with a fresh timer.
func (r *Registry) Open(addr string) ConnID {
	id := ConnID(uuid.NewString())
	s := r.shardFor(id)

	s.mx.Lock()
	s.conns[id] = &conn{addr: addr, timer: r.timerCfg.NewTimer(r.timerOpt...)}
	s.mx.Unlock()

	return id
}

// Close forgets the connection and its backoff history. It reports whether
// the connection was registered.
func (r *Registry) Close(id ConnID) bool {
	s := r.shardFor(id)

	s.mx.Lock()
	defer s.mx.Unlock()

	if _, ok := s.conns[id]; !ok {
		return false
	}
	delete(s.conns, id)
	return true
}

// Addr returns the address the connection was opened with.
func (r *Registry) Addr(id ConnID) (string, bool) {
	s := r.shardFor(id)

	s.mx.Lock()
	defer s.mx.Unlock()

	c, ok := s.conns[id]
	if !ok {
		return "", false
	}
	return c.addr, true
}

// With runs fn on the connection's timer while holding its shard lock. It
// returns ErrUnknownConnection if id is not registered.
func (r *Registry) With(id ConnID, fn func(t *backoff.Timer)) error {
	s := r.shardFor(id)

	s.mx.Lock()
	defer s.mx.Unlock()

	c, ok := s.conns[id]
	if !ok {
		return ErrUnknownConnection
	}
	fn(c.timer)
	return nil
}

// Len returns the number of open connections.
func (r *Registry) Len() int {
	n := 0
	for _, s := range r.shards {
		s.mx.Lock()
		n += len(s.conns)
		s.mx.Unlock()
	}
	return n
}

// IDs returns a snapshot of the open connections, in no particular order.
func (r *Registry) IDs() []ConnID {
	ids := make([]ConnID, 0)
	for _, s := range r.shards {
		s.mx.Lock()
		for id := range s.conns {
			ids = append(ids, id)
		}
		s.mx.Unlock()
	}
	return ids
}
