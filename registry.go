package gluekit

import (
	"github.com/google/uuid"

	"github.com/attaswift/gluekit/utils"
)

// Stats is a point-in-time snapshot of one observable's activity.
type Stats struct {
	Observers int
	Depth     int
	Sends     uint64
	Elements  int
}

// Instrumented is anything that can report Stats. All concrete variables
// implement it.
type Instrumented interface {
	ObservableStats() Stats
}

type regEntry struct {
	name string
	obs  Instrumented
}

// Registry is an opt-in index of live observables, usually scraped by a
// StatsCollector. It may be read from a metrics goroutine while the
// engine mutates on another, hence the concurrent map.
type Registry struct {
	entries *utils.CMap[uuid.UUID, regEntry]
	log     utils.Logger
}

func NewRegistry(log utils.Logger) *Registry {
	if log == nil {
		log = utils.NopLogger{}
	}
	return &Registry{
		entries: utils.NewCMap[uuid.UUID, regEntry](),
		log:     log,
	}
}

// Register indexes an observable under a metrics name and returns its
// registration token.
func (r *Registry) Register(name string, obs Instrumented) uuid.UUID {
	id := uuid.New()
	r.entries.Store(id, regEntry{name: name, obs: obs})
	r.log.Debug("observable registered", "name", name, "id", id.String())
	return id
}

// Deregister forgets a registration; unknown tokens are a no-op.
func (r *Registry) Deregister(id uuid.UUID) {
	if e, ok := r.entries.LoadAndDelete(id); ok {
		r.log.Debug("observable deregistered", "name", e.name, "id", id.String())
	}
}

func (r *Registry) Size() int {
	return r.entries.Size()
}

func (r *Registry) each(f func(name string, s Stats)) {
	r.entries.Range(func(_ uuid.UUID, e regEntry) bool {
		f(e.name, e.obs.ObservableStats())
		return true
	})
}
