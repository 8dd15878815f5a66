package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/ordergraph/internal/graph"
	"github.com/roach88/ordergraph/internal/intake"
	"github.com/roach88/ordergraph/internal/store"
)

// Verdict is the recorded outcome of one check.
type Verdict = store.Verdict

// Recorder persists verdicts. *store.Store implements it.
type Recorder interface {
	WriteVerdict(ctx context.Context, v store.Verdict) error
}

// Gate validates documents and records verdicts.
type Gate struct {
	recorder Recorder
	clock    *Clock
	ids      IDGenerator
	cache    *verdictCache
	logger   zerolog.Logger
	maxSteps int

	cacheSize int64
	cacheTTL  time.Duration
}

// Option configures a Gate.
type Option func(*Gate)

// WithMaxSteps sets the cycle walk budget. Values of zero or less keep
// graph.DefaultMaxSteps.
func WithMaxSteps(n int) Option {
	return func(g *Gate) {
		if n > 0 {
			g.maxSteps = n
		}
	}
}

// WithCache sizes the outcome cache. A size of zero disables caching; a ttl
// of zero keeps entries until evicted.
func WithCache(size int64, ttl time.Duration) Option {
	return func(g *Gate) {
		g.cacheSize = size
		g.cacheTTL = ttl
	}
}

// WithClock sets the logical clock, typically resumed from the audit log.
func WithClock(c *Clock) Option {
	return func(g *Gate) { g.clock = c }
}

// WithIDGenerator sets the run id source.
func WithIDGenerator(ids IDGenerator) Option {
	return func(g *Gate) { g.ids = ids }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Gate) { g.logger = l }
}

// New creates a Gate. A nil recorder disables auditing.
func New(recorder Recorder, opts ...Option) (*Gate, error) {
	g := &Gate{
		recorder:  recorder,
		clock:     NewClock(),
		ids:       UUIDv7Generator{},
		logger:    zerolog.Nop(),
		maxSteps:  graph.DefaultMaxSteps,
		cacheSize: 1024,
		cacheTTL:  10 * time.Minute,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.cacheSize > 0 {
		cache, err := newVerdictCache(g.cacheSize, g.cacheTTL)
		if err != nil {
			return nil, err
		}
		g.cache = cache
	}
	return g, nil
}

// Close releases the cache. The recorder is owned by the caller.
func (g *Gate) Close() {
	g.cache.close()
}

// CacheHits reports how many checks were served from the cache.
func (g *Gate) CacheHits() uint64 {
	return g.cache.hits()
}

// Check validates doc and returns its verdict.
//
// A rejected document is not an error: the verdict carries the failure.
// Errors are reserved for fingerprinting and recording failures.
func (g *Gate) Check(ctx context.Context, doc *intake.Document) (*Verdict, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fp, err := doc.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", doc.Source, err)
	}

	key := cacheKey(fp, g.maxSteps)
	out, cached := g.cache.get(key)
	if !cached {
		out, err = g.evaluate(doc)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", doc.Source, err)
		}
		g.cache.set(key, out)
	}

	v := &Verdict{
		RunID:       g.ids.Generate(),
		Seq:         g.clock.Next(),
		Source:      doc.Source,
		OrderID:     doc.OrderID(),
		Kind:        string(doc.Kind),
		Fingerprint: fp,
		ItemCount:   doc.ItemCount(),
		Valid:       out.valid,
		ErrorKind:   out.errorKind,
		ErrorItem:   out.item,
		ErrorTarget: out.target,
		Message:     out.message,
		MaxSteps:    g.maxSteps,
		Cached:      cached,
	}
	g.logVerdict(v)

	if g.recorder != nil {
		if err := g.recorder.WriteVerdict(ctx, *v); err != nil {
			return nil, fmt.Errorf("check %s: %w", doc.Source, err)
		}
	}
	return v, nil
}

func (g *Gate) evaluate(doc *intake.Document) (outcome, error) {
	err := doc.Validate(graph.WithMaxSteps(g.maxSteps))
	if err == nil {
		return outcome{valid: true}, nil
	}

	var ve *graph.ValidationError
	if !errors.As(err, &ve) {
		return outcome{}, err
	}
	return outcome{
		errorKind: string(ve.Kind),
		item:      ve.ItemID,
		target:    ve.TargetID,
		message:   ve.Error(),
	}, nil
}

func (g *Gate) logVerdict(v *Verdict) {
	var ev *zerolog.Event
	switch {
	case v.Cached:
		ev = g.logger.Debug().Bool("cached", true)
	case v.Valid:
		ev = g.logger.Info()
	default:
		ev = g.logger.Warn()
	}
	ev = ev.Str("run_id", v.RunID).
		Int64("seq", v.Seq).
		Str("kind", v.Kind).
		Str("order_id", v.OrderID).
		Str("fingerprint", v.Fingerprint[:12])
	if v.Source != "" {
		ev = ev.Str("source", v.Source)
	}
	if v.Valid {
		ev.Msg("order accepted")
		return
	}
	ev.Str("error_kind", v.ErrorKind).Str("item_id", v.ErrorItem).Msg("order rejected")
}
