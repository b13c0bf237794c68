package sim

import (
	"errors"
	"image"
	"math"
	"slices"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"

	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/logging"
	"github.com/san-kum/gravbox/internal/physics"
)

// Entity is anything the world owns and draws. Bodies are the only
// entities that take part in the update pass.
type Entity interface {
	Alive() bool
	Draw(s dynamo.Surface, debug bool)
}

// Observer is notified after every completed tick.
type Observer interface {
	OnTick(w *World)
}

// Background is the static entity painted first on every frame.
type Background struct {
	Image image.Image
	At    dynamo.Vec2
}

func (b *Background) Alive() bool { return true }

func (b *Background) Draw(s dynamo.Surface, debug bool) {
	if b.Image != nil {
		s.DrawImage(b.Image, b.At)
	}
}

// Stats counts impact outcomes since the world was created.
type Stats struct {
	Merges    int
	Collapses int
}

// World is the ordered collection of entities. Insertion order is draw
// order. It is not safe for concurrent use.
type World struct {
	entities   []Entity
	index      *intmap.Map[uint64, int]
	nextID     uint64
	gravity    physics.Gravity
	background *Background
	debug      bool
	validate   bool
	tick       int
	stats      Stats
	observers  []Observer
	logger     *zap.Logger
}

type Option func(*World)

func WithGravity(g physics.Gravity) Option {
	return func(w *World) { w.gravity = g }
}

func WithBackground(img image.Image) Option {
	return func(w *World) { w.background = &Background{Image: img} }
}

func WithDebug(debug bool) Option {
	return func(w *World) { w.debug = debug }
}

// WithValidation makes Update fail once a live body's position or
// velocity is no longer finite.
func WithValidation(validate bool) Option {
	return func(w *World) { w.validate = validate }
}

func WithLogger(l *zap.Logger) Option {
	return func(w *World) { w.logger = l }
}

func New(opts ...Option) *World {
	w := &World{
		index:      intmap.New[uint64, int](64),
		gravity:    physics.DefaultGravity(),
		background: &Background{},
		validate:   true,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.OrNop(w.logger)
	w.Reset()
	return w
}

func (w *World) AddObserver(o Observer) { w.observers = append(w.observers, o) }

// AddEntity appends e. Bodies without an ID are assigned one; IDs are
// never reused, so a handle taken before a removal or reset cannot
// resolve to a different body.
func (w *World) AddEntity(e Entity) {
	if b, ok := e.(*physics.Body); ok {
		if b.ID == 0 {
			w.nextID++
			b.ID = w.nextID
		}
		w.index.Put(b.ID, len(w.entities))
	}
	w.entities = append(w.entities, e)
}

// Spawn creates a body of the given kind and returns its ID.
func (w *World) Spawn(kind physics.Kind, pos dynamo.Vec2, opts ...physics.Option) uint64 {
	b := physics.New(kind, pos, opts...)
	w.AddEntity(b)
	return b.ID
}

func (w *World) SpawnBlackHole(pos dynamo.Vec2) uint64 {
	return w.Spawn(physics.BlackHole, pos)
}

// Update advances every live body by one tick, then purges the bodies that
// died during the pass. Bodies spawned mid-pass are first updated on the
// following tick.
func (w *World) Update() error {
	var errs []error

	n := len(w.entities)
	for i := 0; i < n; i++ {
		b, ok := w.entities[i].(*physics.Body)
		if !ok || !b.Alive() {
			continue
		}
		if err := w.step(b); err != nil {
			errs = append(errs, err)
		}
	}

	w.compact()
	w.tick++

	if w.validate {
		if err := w.checkState(); err != nil {
			errs = append(errs, err)
		}
	}

	for _, o := range w.observers {
		o.OnTick(w)
	}

	return errors.Join(errs...)
}

func (w *World) step(b *physics.Body) error {
	b.Integrate()

	for j := 0; j < len(w.entities); j++ {
		// absorbed earlier in this scan
		if !b.Alive() {
			return nil
		}
		other, ok := w.entities[j].(*physics.Body)
		if !ok || other == b || !other.Alive() {
			continue
		}

		if b.Overlaps(other).Collided {
			if err := w.impact(b, other); err != nil {
				return err
			}
			continue
		}
		b.Attract(other, w.gravity)
	}
	return nil
}

func (w *World) impact(b, other *physics.Body) error {
	hole, err := b.Impact(other)
	if err != nil {
		return err
	}
	if hole == nil {
		w.stats.Merges++
		w.logger.Debug("bodies merged",
			zap.Int("tick", w.tick),
			zap.Uint64("a", b.ID),
			zap.Uint64("b", other.ID),
		)
		return nil
	}

	w.AddEntity(hole)
	w.stats.Collapses++
	w.logger.Info("black hole formed",
		zap.Int("tick", w.tick),
		zap.Uint64("id", hole.ID),
		zap.Float64("x", hole.Position.X),
		zap.Float64("y", hole.Position.Y),
	)
	return nil
}

// compact removes dead entities, keeping survivors in insertion order, and
// rebuilds the handle index. The vacated tail is zeroed.
func (w *World) compact() {
	before := len(w.entities)
	w.entities = slices.DeleteFunc(w.entities, func(e Entity) bool { return !e.Alive() })
	if len(w.entities) == before {
		return
	}

	w.index.Clear()
	for i, e := range w.entities {
		if b, ok := e.(*physics.Body); ok {
			w.index.Put(b.ID, i)
		}
	}
}

func (w *World) checkState() error {
	for _, b := range w.Bodies() {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			return &dynamo.SimError{Tick: w.tick, BodyID: b.ID, Message: "non-finite position or velocity"}
		}
	}
	return nil
}

// Draw clears s and paints every entity in insertion order.
func (w *World) Draw(s dynamo.Surface) {
	s.Clear()
	for _, e := range w.entities {
		e.Draw(s, w.debug)
	}
}

// Reset drops every entity and re-adds the background.
func (w *World) Reset() {
	w.entities = make([]Entity, 0, 16)
	w.index.Clear()
	w.AddEntity(w.background)
}

// Bodies returns the world's bodies in entity order.
func (w *World) Bodies() []*physics.Body {
	bodies := make([]*physics.Body, 0, len(w.entities))
	for _, e := range w.entities {
		if b, ok := e.(*physics.Body); ok {
			bodies = append(bodies, b)
		}
	}
	return bodies
}

// Lookup resolves a body handle. Handles of removed bodies do not resolve.
func (w *World) Lookup(id uint64) (*physics.Body, bool) {
	i, ok := w.index.Get(id)
	if !ok || i >= len(w.entities) {
		return nil, false
	}
	b, ok := w.entities[i].(*physics.Body)
	if !ok || b.ID != id {
		return nil, false
	}
	return b, true
}

// TotalMass sums the mass of live bodies. It is +Inf once a black hole
// exists.
func (w *World) TotalMass() float64 {
	total := 0.0
	for _, b := range w.Bodies() {
		if b.Alive() {
			total += b.Mass
		}
	}
	return total
}

// Momentum sums mass-weighted velocity over finite-mass live bodies.
func (w *World) Momentum() dynamo.Vec2 {
	var p dynamo.Vec2
	for _, b := range w.Bodies() {
		if b.Alive() && !math.IsInf(b.Mass, 0) {
			p = p.Add(b.Velocity.Scale(b.Mass))
		}
	}
	return p
}

func (w *World) Entities() []Entity       { return w.entities }
func (w *World) Len() int                 { return len(w.entities) }
func (w *World) Tick() int                { return w.tick }
func (w *World) Stats() Stats             { return w.stats }
func (w *World) Gravity() physics.Gravity { return w.gravity }
func (w *World) Debug() bool              { return w.debug }
func (w *World) SetDebug(debug bool)      { w.debug = debug }
func (w *World) Background() *Background  { return w.background }
