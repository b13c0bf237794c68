package scene

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravbox/internal/config"
	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/sim"
)

// BodySpec is one body of a scene. Zero Mass or Radius keeps the kind's
// default.
type BodySpec struct {
	Kind     physics.Kind
	Position dynamo.Vec2
	Velocity dynamo.Vec2
	Mass     float64
	Radius   float64
}

type Scene struct {
	Name        string
	Description string
	Bodies      []BodySpec
}

// Apply resets w and spawns the scene's bodies in order.
func (s Scene) Apply(w *sim.World) {
	w.Reset()
	for _, spec := range s.Bodies {
		opts := []physics.Option{physics.WithVelocity(spec.Velocity)}
		if spec.Mass > 0 {
			opts = append(opts, physics.WithMass(spec.Mass))
		}
		if spec.Radius > 0 {
			opts = append(opts, physics.WithRadius(spec.Radius))
		}
		w.Spawn(spec.Kind, spec.Position, opts...)
	}
}

func star(x, y float64) BodySpec   { return BodySpec{Kind: physics.Star, Position: dynamo.V(x, y)} }
func planet(x, y float64) BodySpec { return BodySpec{Kind: physics.Planet, Position: dynamo.V(x, y)} }

func (b BodySpec) moving(vx, vy float64) BodySpec {
	b.Velocity = dynamo.V(vx, vy)
	return b
}

func (b BodySpec) sized(mass, radius float64) BodySpec {
	b.Mass, b.Radius = mass, radius
	return b
}

var Builtins = []Scene{
	{
		Name:        "binary",
		Description: "two stars in mutual orbit with four planets",
		Bodies: []BodySpec{
			star(350, 350).moving(0, -0.4),
			star(480, 350).sized(5000, 20).moving(0, 0.8),
			planet(550, 350).moving(0, -1.2),
			planet(100, 200).sized(8, 8).moving(-1.5, 2.5),
			planet(200, 200).sized(10, 4).moving(-1.5, 1.5),
			planet(100, 600).sized(1, 2).moving(1, 1),
		},
	},
	{
		Name:        "unary",
		Description: "one resting star and two planets",
		Bodies: []BodySpec{
			star(400, 350),
			planet(200, 350).moving(0, 1.0),
			planet(100, 200).sized(100, 10).moving(-1.2, 1.2),
		},
	},
	{
		Name:        "classic",
		Description: "a star and a resting planet",
		Bodies: []BodySpec{
			star(400, 350),
			planet(700, 600),
		},
	},
}

// Registry holds the scenes available by name.
type Registry struct {
	scenes map[string]Scene
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]Scene)}
	for _, s := range Builtins {
		r.scenes[s.Name] = s
	}
	return r
}

// Register adds s, replacing any scene with the same name.
func (r *Registry) Register(s Scene) error {
	if s.Name == "" {
		return fmt.Errorf("scene name must not be empty")
	}
	r.scenes[s.Name] = s
	return nil
}

// RegisterConfig adds every scene declared in a config file.
func (r *Registry) RegisterConfig(scenes map[string]config.SceneConfig) error {
	for name, sc := range scenes {
		s, err := FromConfig(name, sc)
		if err != nil {
			return err
		}
		if err := r.Register(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Get(name string) (Scene, error) {
	s, ok := r.scenes[name]
	if !ok {
		return Scene{}, fmt.Errorf("unknown scene: %s (available: %v)", name, r.Names())
	}
	return s, nil
}

// Apply resets w and seeds it with the named scene.
func (r *Registry) Apply(w *sim.World, name string) error {
	s, err := r.Get(name)
	if err != nil {
		return err
	}
	s.Apply(w)
	return nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the scene name after current in sorted order, wrapping.
func (r *Registry) Next(current string) string {
	names := r.Names()
	if len(names) == 0 {
		return current
	}
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

func FromConfig(name string, sc config.SceneConfig) (Scene, error) {
	s := Scene{Name: name, Description: sc.Description, Bodies: make([]BodySpec, 0, len(sc.Bodies))}
	for i, b := range sc.Bodies {
		kind, ok := physics.KindByName(b.Kind)
		if !ok {
			return Scene{}, fmt.Errorf("scene %s body %d: unknown kind %q", name, i, b.Kind)
		}
		s.Bodies = append(s.Bodies, BodySpec{
			Kind:     kind,
			Position: dynamo.V(b.X, b.Y),
			Velocity: dynamo.V(b.VX, b.VY),
			Mass:     b.Mass,
			Radius:   b.Radius,
		})
	}
	return s, nil
}
