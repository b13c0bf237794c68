package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/sim"
)

type tickCounter struct{ ticks int }

func (c *tickCounter) OnTick(w *sim.World) { c.ticks++ }

var _ = Describe("World", func() {
	var w *sim.World

	BeforeEach(func() {
		w = sim.New()
	})

	It("starts with only the background", func() {
		Expect(w.Len()).To(Equal(1))
		Expect(w.Bodies()).To(BeEmpty())
		Expect(w.Entities()[0]).To(BeAssignableToTypeOf(&sim.Background{}))
	})

	It("appends entities in insertion order", func() {
		a := w.Spawn(physics.Star, dynamo.V(0, 0))
		b := w.Spawn(physics.Planet, dynamo.V(500, 0))
		bodies := w.Bodies()
		Expect(bodies).To(HaveLen(2))
		Expect(bodies[0].ID).To(Equal(a))
		Expect(bodies[1].ID).To(Equal(b))
	})

	It("integrates one unit step per update", func() {
		star := w.Spawn(physics.Star, dynamo.V(350, 350), physics.WithVelocity(dynamo.V(0, -0.4)))
		planet := w.Spawn(physics.Planet, dynamo.V(550, 350), physics.WithVelocity(dynamo.V(0, -1.2)))

		Expect(w.Update()).To(Succeed())

		s, ok := w.Lookup(star)
		Expect(ok).To(BeTrue())
		p, ok := w.Lookup(planet)
		Expect(ok).To(BeTrue())

		Expect(s.Position.X).To(BeNumerically("~", 350, 1e-9))
		Expect(s.Position.Y).To(BeNumerically("~", 349.6, 1e-9))
		Expect(p.Position.X).To(BeNumerically("~", 550, 1e-9))
		Expect(p.Position.Y).To(BeNumerically("~", 348.8, 1e-9))
		Expect(w.Bodies()).To(HaveLen(2))
		Expect(w.Tick()).To(Equal(1))
	})

	It("pulls bodies toward each other", func() {
		star := w.Spawn(physics.Star, dynamo.V(350, 350))
		planet := w.Spawn(physics.Planet, dynamo.V(550, 350))

		Expect(w.Update()).To(Succeed())

		s, _ := w.Lookup(star)
		p, _ := w.Lookup(planet)
		Expect(s.Velocity.X).To(BeNumerically(">", 0))
		Expect(p.Velocity.X).To(BeNumerically("<", 0))
		Expect(p.Velocity.X).To(BeNumerically("~", -10000.0/(200*200), 1e-12))
	})

	It("merges overlapping finite bodies into the heavier one", func() {
		heavy := w.Spawn(physics.Star, dynamo.V(0, 0))
		light := w.Spawn(physics.Star, dynamo.V(30, 0), physics.WithMass(5000), physics.WithRadius(20))

		Expect(w.Update()).To(Succeed())

		bodies := w.Bodies()
		Expect(bodies).To(HaveLen(1))
		Expect(bodies[0].ID).To(Equal(heavy))
		Expect(bodies[0].Mass).To(Equal(15000.0))
		_, found := w.Lookup(light)
		Expect(found).To(BeFalse())
		Expect(w.Stats().Merges).To(Equal(1))
	})

	It("merges once even when the lighter body is scanned first", func() {
		w.Spawn(physics.Star, dynamo.V(30, 0), physics.WithMass(5000), physics.WithRadius(20))
		w.Spawn(physics.Star, dynamo.V(0, 0))

		Expect(w.Update()).To(Succeed())

		bodies := w.Bodies()
		Expect(bodies).To(HaveLen(1))
		Expect(bodies[0].Mass).To(Equal(15000.0))
	})

	It("collapses a black hole impact into a new black hole", func() {
		w.Spawn(physics.Star, dynamo.V(0, 0))
		hole := w.SpawnBlackHole(dynamo.V(45, 0))

		Expect(w.Update()).To(Succeed())

		bodies := w.Bodies()
		Expect(bodies).To(HaveLen(1))
		Expect(bodies[0].Tag()).To(Equal(physics.TagBlackHole))
		Expect(bodies[0].ID).NotTo(Equal(hole))
		Expect(bodies[0].Position).To(Equal(dynamo.V(45, 0)))
		Expect(bodies[0].Velocity).To(Equal(dynamo.Vec2{}))
		Expect(math.IsInf(bodies[0].Mass, 1)).To(BeTrue())
		Expect(w.Stats().Collapses).To(Equal(1))
	})

	It("does not step a black hole spawned during the pass", func() {
		w.Spawn(physics.Star, dynamo.V(0, 0))
		w.SpawnBlackHole(dynamo.V(45, 0))
		planet := w.Spawn(physics.Planet, dynamo.V(400, 0))

		Expect(w.Update()).To(Succeed())

		bodies := w.Bodies()
		Expect(bodies).To(HaveLen(2))
		Expect(bodies[0].ID).To(Equal(planet))

		hole := bodies[1]
		Expect(hole.Tag()).To(Equal(physics.TagBlackHole))
		Expect(hole.Position).To(Equal(dynamo.V(45, 0)))
		Expect(hole.Velocity).To(Equal(dynamo.Vec2{}))

		// later bodies in the same pass already feel the new hole
		Expect(bodies[0].Velocity.X).To(BeNumerically("~", -100000.0/(355*355), 1e-12))
		Expect(bodies[0].Velocity.Y).To(BeNumerically("~", 0, 1e-12))
	})

	It("drops removed bodies from the backing array", func() {
		w.Spawn(physics.Star, dynamo.V(0, 0))
		w.Spawn(physics.Star, dynamo.V(30, 0), physics.WithMass(5000), physics.WithRadius(20))
		w.Spawn(physics.Planet, dynamo.V(600, 0))

		Expect(w.Update()).To(Succeed())

		entities := w.Entities()
		Expect(entities).To(HaveLen(3))
		for _, e := range entities[len(entities):cap(entities)] {
			Expect(e).To(BeNil())
		}
	})

	It("treats touching colliders as collided", func() {
		w.Spawn(physics.Planet, dynamo.V(0, 0), physics.WithRadius(3), physics.WithMass(10))
		w.Spawn(physics.Planet, dynamo.V(6, 0), physics.WithRadius(3), physics.WithMass(5))

		Expect(w.Update()).To(Succeed())

		Expect(w.Bodies()).To(HaveLen(1))
		Expect(w.Bodies()[0].Mass).To(Equal(15.0))
	})

	It("never loses finite mass", func() {
		w.Spawn(physics.Star, dynamo.V(350, 350), physics.WithVelocity(dynamo.V(0, -0.4)))
		w.Spawn(physics.Star, dynamo.V(480, 350), physics.WithMass(5000), physics.WithRadius(20), physics.WithVelocity(dynamo.V(0, 0.8)))
		w.Spawn(physics.Planet, dynamo.V(550, 350), physics.WithVelocity(dynamo.V(0, -1.2)))
		w.Spawn(physics.Planet, dynamo.V(380, 350), physics.WithMass(8), physics.WithRadius(8))

		before := w.TotalMass()
		for i := 0; i < 200; i++ {
			Expect(w.Update()).To(Succeed())
			Expect(w.TotalMass()).To(BeNumerically("~", before, 1e-6))
		}
	})

	It("resets to the background only", func() {
		id := w.Spawn(physics.Star, dynamo.V(0, 0))
		w.Reset()
		Expect(w.Len()).To(Equal(1))
		_, ok := w.Lookup(id)
		Expect(ok).To(BeFalse())

		next := w.Spawn(physics.Star, dynamo.V(0, 0))
		Expect(next).NotTo(Equal(id))
	})

	It("notifies observers after each tick", func() {
		c := &tickCounter{}
		w.AddObserver(c)
		w.Spawn(physics.Planet, dynamo.V(0, 0))
		for i := 0; i < 3; i++ {
			Expect(w.Update()).To(Succeed())
		}
		Expect(c.ticks).To(Equal(3))
	})

	It("reports non-finite state", func() {
		w.Spawn(physics.Planet, dynamo.V(0, 0), physics.WithVelocity(dynamo.V(math.Inf(1), 0)))
		err := w.Update()
		Expect(err).To(MatchError(dynamo.ErrInvalidState))

		var simErr *dynamo.SimError
		Expect(errorsAs(err, &simErr)).To(BeTrue())
		Expect(simErr.Tick).To(Equal(1))
	})

	It("skips validation when disabled", func() {
		w = sim.New(sim.WithValidation(false))
		w.Spawn(physics.Planet, dynamo.V(0, 0), physics.WithVelocity(dynamo.V(math.NaN(), 0)))
		Expect(w.Update()).To(Succeed())
	})

	Describe("Draw", func() {
		It("clears then paints background and bodies in order", func() {
			s := &traceSurface{}
			w = sim.New(sim.WithBackground(blankImage()))
			w.Spawn(physics.Star, dynamo.V(0, 0))
			w.Spawn(physics.Planet, dynamo.V(100, 0))

			w.Draw(s)
			Expect(s.calls).To(Equal([]string{"clear", "image", "fill", "fill"}))
		})

		It("adds collider outlines in debug mode", func() {
			s := &traceSurface{}
			w.SetDebug(true)
			w.Spawn(physics.Star, dynamo.V(0, 0))

			w.Draw(s)
			Expect(s.calls).To(Equal([]string{"clear", "fill", "stroke"}))
		})
	})
})
