package arena

import (
	"context"
	"errors"
	"sync"
)

// ScratchCount is the number of arenas in a ScratchPool.
const ScratchCount = 2

// scratchSettings is the process-wide scratch configuration. It may be set
// until the first scratch arena is created anywhere in the process.
var scratchSettings struct {
	mu     sync.Mutex
	frozen bool
	cfg    Config
	opts   []Option
}

// SetScratchConfig sets the configuration used for every scratch arena.
// It returns ErrScratchConfigFrozen once any ScratchPool has created an
// arena; the configuration in effect at that moment is kept.
func SetScratchConfig(cfg Config, opts ...Option) error {
	if err := cfg.Validate(); err != nil {
		return &Error{Code: CodeInitFailed, Msg: err.Error()}
	}

	scratchSettings.mu.Lock()
	defer scratchSettings.mu.Unlock()

	if scratchSettings.frozen {
		return ErrScratchConfigFrozen
	}
	scratchSettings.cfg = cfg
	scratchSettings.opts = append([]Option(nil), opts...)
	return nil
}

// ScratchConfigFrozen reports whether the scratch configuration can no
// longer be changed.
func ScratchConfigFrozen() bool {
	scratchSettings.mu.Lock()
	defer scratchSettings.mu.Unlock()
	return scratchSettings.frozen
}

// scratchConfig freezes and returns the scratch configuration.
func scratchConfig() (Config, []Option) {
	scratchSettings.mu.Lock()
	defer scratchSettings.mu.Unlock()

	scratchSettings.frozen = true
	return scratchSettings.cfg, scratchSettings.opts
}

// ScratchPool is a small set of arenas for transient allocations in code that
// does not own its caller's arena. A pool belongs to one goroutine (one
// worker); it is never shared. Pass it down explicitly or through a context
// with WithScratchPool.
//
//	func build(ctx context.Context, out *arena.Arena) error {
//	    tmp, err := arena.GetScratch(ctx, out)
//	    if err != nil {
//	        return err
//	    }
//	    defer tmp.End()
//	    // tmp.Arena() is guaranteed not to be out.
//	}
type ScratchPool struct {
	arenas [ScratchCount]*Arena
}

// NewScratchPool returns an empty pool. Arenas are created on first use
// with the configuration set by SetScratchConfig.
func NewScratchPool() *ScratchPool {
	return &ScratchPool{}
}

// Get returns a checkpoint on the first pool arena that is not one of
// excluding. Pass every arena the caller already allocates from so scratch
// allocations can never alias them.
func (p *ScratchPool) Get(excluding ...*Arena) (Temp, error) {
	for i := range p.arenas {
		a := p.arenas[i]
		if a == nil {
			cfg, opts := scratchConfig()
			created, err := New(cfg, opts...)
			if err != nil {
				return Temp{}, err
			}
			p.arenas[i] = created
			return created.TempBegin(), nil
		}
		if !containsArena(excluding, a) {
			return a.TempBegin(), nil
		}
	}
	return Temp{}, ErrNoScratchArena
}

// Release ends a checkpoint obtained from Get.
func (p *ScratchPool) Release(t Temp) {
	t.End()
}

// Close destroys every arena in the pool. It corresponds to the end of the
// owning worker; the pool may be reused afterwards and recreates its arenas.
func (p *ScratchPool) Close() error {
	var errs []error
	for i, a := range p.arenas {
		if a == nil {
			continue
		}
		if err := a.Destroy(); err != nil {
			errs = append(errs, err)
		}
		p.arenas[i] = nil
	}
	return errors.Join(errs...)
}

func containsArena(list []*Arena, a *Arena) bool {
	for _, x := range list {
		if x == a {
			return true
		}
	}
	return false
}

type scratchKey struct{}

// WithScratchPool returns a copy of ctx carrying pool.
func WithScratchPool(ctx context.Context, pool *ScratchPool) context.Context {
	return context.WithValue(ctx, scratchKey{}, pool)
}

// ScratchPoolFromContext returns the pool carried by ctx, if any.
func ScratchPoolFromContext(ctx context.Context) (*ScratchPool, bool) {
	pool, ok := ctx.Value(scratchKey{}).(*ScratchPool)
	return pool, ok && pool != nil
}

// GetScratch is Get on the pool carried by ctx. It returns ErrNoScratchPool
// if ctx carries none.
func GetScratch(ctx context.Context, excluding ...*Arena) (Temp, error) {
	pool, ok := ScratchPoolFromContext(ctx)
	if !ok {
		return Temp{}, ErrNoScratchPool
	}
	return pool.Get(excluding...)
}
