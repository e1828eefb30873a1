package scenario_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/relaxlab/internal/relax"
	"github.com/san-kum/relaxlab/internal/scenario"
)

var _ = Describe("Laplace", func() {
	It("prescribes sin(x)sinh(y) on the top row and right column", func() {
		p, err := scenario.Laplace(7, 1.25)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Size()).To(Equal(7))
		Expect(p.Grid.At(6, 3)).To(BeNumerically("~", math.Sin(0.5)*math.Sinh(1), 1e-15))
		Expect(p.Grid.At(3, 6)).To(BeNumerically("~", math.Sin(1)*math.Sinh(0.5), 1e-15))
		Expect(p.Grid.At(0, 3)).To(BeZero())
		Expect(p.Grid.At(3, 0)).To(BeZero())
		Expect(p.Fixed).To(Equal(relax.Border(7)))
		Expect(p.Source).To(BeNil())
		Expect(p.Config.Alpha).To(Equal(1.25))
		Expect(p.Config.MaxSweeps).To(Equal(relax.LaplaceMaxSweeps))
	})

	It("converges in 15 sweeps at alpha 1.35", func() {
		p, err := scenario.Laplace(7, 1.35)
		Expect(err).NotTo(HaveOccurred())
		res, err := p.Solve()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(res.Sweeps).To(Equal(15))
		Expect(res.History.Len()).To(Equal(15))
	})

	It("rejects grids below 3x3", func() {
		_, err := scenario.Laplace(2, 1.2)
		Expect(err).To(MatchError(relax.ErrInvalidParameter))
	})
})

var _ = Describe("Poisson", func() {
	It("places a charge at row Y(N-1), column X(N-1)", func() {
		p, err := scenario.PoissonLayout(25, "line-right")
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Source.At(12, 18)).To(Equal(100.0))
		Expect(p.Source.At(18, 12)).To(BeZero())
		Expect(p.Config.Alpha).To(Equal(relax.OptimalAlpha(25)))
		Expect(p.Config.Tolerance).To(Equal(relax.PoissonTolerance))
	})

	It("builds both poles of a dipole", func() {
		p, err := scenario.PoissonLayout(25, "dipole-diagonal")
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Source.At(6, 6)).To(Equal(-100.0))
		Expect(p.Source.At(18, 18)).To(Equal(100.0))
	})

	It("adds charges that share a cell", func() {
		p, err := scenario.Poisson(5, scenario.Charge{X: 0.5, Y: 0.5, Q: 3}, scenario.Charge{X: 0.5, Y: 0.5, Q: 4})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Source.At(2, 2)).To(Equal(7.0))
	})

	It("builds every named layout", func() {
		layouts := scenario.Layouts()
		Expect(layouts).To(HaveLen(9))
		for _, l := range layouts {
			p, err := scenario.PoissonLayout(25, l.Name)
			Expect(err).NotTo(HaveOccurred(), l.Name)
			Expect(p.Description).To(ContainSubstring(l.Description))
		}
	})

	It("solves a line charge to a negative well", func() {
		p, err := scenario.PoissonLayout(25, "line-right")
		Expect(err).NotTo(HaveOccurred())
		res, err := p.Solve()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Sweeps).To(Equal(relax.PoissonMaxSweeps))
		Expect(res.Grid.At(12, 18)).To(BeNumerically("~", -0.108016554456979, 1e-9))
	})

	DescribeTable("rejects bad input",
		func(build func() (*scenario.Problem, error)) {
			_, err := build()
			Expect(err).To(HaveOccurred())
		},
		Entry("no charges", func() (*scenario.Problem, error) { return scenario.Poisson(25) }),
		Entry("charge outside", func() (*scenario.Problem, error) {
			return scenario.Poisson(25, scenario.Charge{X: 1.5, Y: 0.5, Q: 1})
		}),
		Entry("unknown layout", func() (*scenario.Problem, error) { return scenario.PoissonLayout(25, "quadrupole") }),
	)
})

var _ = Describe("Fluids", func() {
	It("holds the plates at -10 and +10", func() {
		p, err := scenario.Plates(9)
		Expect(err).NotTo(HaveOccurred())
		mask := p.Fixed.(*relax.Mask)
		Expect(mask.Count()).To(Equal(18))
		for i := 0; i < 9; i++ {
			Expect(p.Grid.At(0, i)).To(Equal(scenario.LowerPlate))
			Expect(p.Grid.At(8, i)).To(Equal(scenario.UpperPlate))
		}
	})

	It("relaxes plates to an antisymmetric stream function", func() {
		p, err := scenario.Plates(9)
		Expect(err).NotTo(HaveOccurred())
		res, err := p.Solve()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		for row := 0; row < 9; row++ {
			for col := 0; col < 9; col++ {
				Expect(res.Grid.At(row, col)).To(BeNumerically("~", -res.Grid.At(8-row, col), 1e-9))
			}
		}
	})

	It("fixes the outline of the middle third for a box", func() {
		p, err := scenario.Box(9)
		Expect(err).NotTo(HaveOccurred())
		lo, hi := scenario.BoxBounds(9)
		Expect(lo).To(Equal(3))
		Expect(hi).To(Equal(6))
		Expect(p.Fixed.Fixed(3, 4)).To(BeTrue())
		Expect(p.Fixed.Fixed(6, 6)).To(BeTrue())
		Expect(p.Fixed.Fixed(4, 4)).To(BeFalse())
		Expect(p.Fixed.Fixed(2, 2)).To(BeFalse())
	})

	It("fixes a disc for a cylinder", func() {
		p, err := scenario.Cylinder(16, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(scenario.DefaultRadius(16)).To(Equal(2.0))
		Expect(p.Fixed.Fixed(8, 8)).To(BeTrue())
		Expect(p.Fixed.Fixed(8, 10)).To(BeTrue())
		Expect(p.Fixed.Fixed(8, 11)).To(BeFalse())
		Expect(p.Fixed.Fixed(3, 3)).To(BeFalse())
		Expect(p.Description).To(ContainSubstring("radius 2"))

		_, err = scenario.Cylinder(16, 8)
		Expect(err).To(MatchError(relax.ErrInvalidParameter))
	})

	It("narrows the outlet", func() {
		g := scenario.Outlet(12, 2)
		Expect(g).To(Equal(scenario.OutflowGeometry{Width: 6, Blockage: 3, Pos: 8}))

		p, err := scenario.Outflow(12, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Fixed.Fixed(1, 8)).To(BeTrue())
		Expect(p.Grid.At(1, 8)).To(Equal(scenario.LowerPlate))
		Expect(p.Grid.At(10, 8)).To(Equal(scenario.UpperPlate))
		Expect(p.Grid.At(3, 10)).To(Equal(scenario.LowerPlate))
		Expect(p.Grid.At(9, 10)).To(Equal(scenario.UpperPlate))
		Expect(p.Fixed.Fixed(10, 10)).To(BeTrue())
		Expect(p.Grid.At(10, 10)).To(BeZero())
		Expect(p.Fixed.Fixed(5, 10)).To(BeFalse())
		Expect(p.Fixed.Fixed(5, 5)).To(BeFalse())

		_, err = scenario.Outflow(12, 1)
		Expect(err).To(MatchError(relax.ErrInvalidParameter))
	})

	It("keeps every fixed value through a solve", func() {
		p, err := scenario.Outflow(15, 3)
		Expect(err).NotTo(HaveOccurred())
		before := make(map[relax.Point]float64)
		for i := 0; i < 15; i++ {
			for j := 0; j < 15; j++ {
				if p.Fixed.Fixed(i, j) {
					before[relax.Point{Row: i, Col: j}] = p.Grid.At(i, j)
				}
			}
		}
		p.Config.Traversal = relax.RedBlack
		_, err = p.Solve()
		Expect(err).NotTo(HaveOccurred())
		for pt, v := range before {
			Expect(p.Grid.At(pt.Row, pt.Col)).To(Equal(v))
		}
	})
})

var _ = Describe("Catalog", func() {
	It("lists the scenarios sorted by name", func() {
		var names []string
		for _, e := range scenario.Catalog() {
			names = append(names, e.Name)
		}
		Expect(names).To(Equal([]string{"box", "cylinder", "laplace", "outflow", "plates", "poisson"}))
	})

	It("applies entry defaults", func() {
		p, err := scenario.Build("laplace", scenario.Params{})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Size()).To(Equal(7))
		Expect(p.Config.Alpha).To(Equal(scenario.DefaultLaplaceAlpha))

		p, err = scenario.Build("poisson", scenario.Params{Size: 13})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Size()).To(Equal(13))
		Expect(p.Source.At(6, 9)).To(Equal(100.0))
	})

	It("reports unknown scenarios", func() {
		_, err := scenario.Build("vortex", scenario.Params{})
		Expect(err).To(MatchError(ContainSubstring("unknown scenario")))
	})
})
