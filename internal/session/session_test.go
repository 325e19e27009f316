package session_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fractsim/internal/fractal"
	"github.com/san-kum/fractsim/internal/render"
	"github.com/san-kum/fractsim/internal/session"
	"github.com/san-kum/fractsim/internal/viewport"
)

func newSession() *session.Session {
	s, err := session.New(session.Options{
		View:   viewport.Default(),
		Params: fractal.DefaultJulia(),
		Width:  32,
		Height: 15,
	})
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Session", func() {
	var s *session.Session

	BeforeEach(func() {
		s = newSession()
	})

	Describe("construction", func() {
		It("starts dirty and running", func() {
			Expect(s.Dirty).To(BeTrue())
			Expect(s.Running).To(BeTrue())
			Expect(s.Controls).To(Equal(session.DefaultControls()))
		})

		It("rejects an empty viewport", func() {
			_, err := session.New(session.Options{
				View:   viewport.Viewport{W: 0, H: 2},
				Params: fractal.DefaultMandelbrot(),
				Width:  8, Height: 8,
			})
			Expect(err).To(MatchError(viewport.ErrInvalidSize))
		})

		It("rejects an empty grid", func() {
			_, err := session.New(session.Options{
				View:   viewport.Default(),
				Params: fractal.DefaultMandelbrot(),
			})
			Expect(err).To(MatchError(render.ErrInvalidSize))
		})

		It("rejects invalid params", func() {
			p := fractal.DefaultMandelbrot()
			p.MaxIter = 0
			_, err := session.New(session.Options{View: viewport.Default(), Params: p, Width: 8, Height: 8})
			Expect(err).To(MatchError(fractal.ErrInvalidBudget))
		})

		It("fills unset controls from the defaults", func() {
			s, err := session.New(session.Options{
				View:     viewport.Default(),
				Params:   fractal.DefaultMandelbrot(),
				Width:    8, Height: 8,
				Controls: session.Controls{ZoomIn: 0.5},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Controls).To(Equal(session.Controls{ZoomIn: 0.5, ZoomOut: 1.25, PanStep: 0.1}))

			s.Apply(session.ZoomOut)
			Expect(s.View.W).To(BeNumerically(">", 0))
			Expect(s.View.H).To(BeNumerically(">", 0))
		})

		It("rejects controls that would flip or freeze the view", func() {
			for _, c := range []session.Controls{
				{ZoomOut: -1},
				{PanStep: -0.1},
				{ZoomIn: math.NaN()},
				{ZoomOut: math.Inf(1)},
			} {
				_, err := session.New(session.Options{
					View:     viewport.Default(),
					Params:   fractal.DefaultMandelbrot(),
					Width:    8, Height: 8,
					Controls: c,
				})
				Expect(err).To(MatchError(session.ErrInvalidControls), "controls %+v", c)
			}
		})
	})

	Describe("rendering", func() {
		It("renders the first frame and then only when dirty", func() {
			_, rendered := s.RenderIfDirty()
			Expect(rendered).To(BeTrue())
			Expect(s.Dirty).To(BeFalse())

			_, rendered = s.RenderIfDirty()
			Expect(rendered).To(BeFalse())
			Expect(s.Frames()).To(Equal(1))
		})

		It("re-renders after a view change", func() {
			s.RenderIfDirty()
			Expect(s.Apply(session.ZoomIn)).To(BeTrue())

			stats, rendered := s.RenderIfDirty()
			Expect(rendered).To(BeTrue())
			Expect(stats.Pixels()).To(Equal(32 * 15))
			Expect(s.Frames()).To(Equal(2))
		})

		It("keeps the histogram in step with the last render", func() {
			stats := s.Render()
			Expect(s.Histogram().Bounded).To(Equal(stats.Bounded))
			Expect(s.LastStats()).To(Equal(stats))
		})

		It("hands out snapshots that do not alias the grid", func() {
			s.Render()
			img := s.Snapshot()
			Expect(img.Bounds().Dx()).To(Equal(32))
			img.Pix[3] = 0
			Expect(s.Grid.At(0, 0) >> 24).To(Equal(uint32(0xff)))
		})
	})

	DescribeTable("view commands",
		func(cmd session.Command, check func(v viewport.Viewport)) {
			s.Render()
			Expect(s.Apply(cmd)).To(BeTrue())
			Expect(s.Dirty).To(BeTrue())
			check(s.View)
		},
		Entry("zoom in", session.ZoomIn, func(v viewport.Viewport) {
			Expect(v.W).To(BeNumerically("~", 2.4, 1e-12))
			Expect(v.H).To(BeNumerically("~", 1.6, 1e-12))
		}),
		Entry("zoom out", session.ZoomOut, func(v viewport.Viewport) {
			Expect(v.W).To(BeNumerically("~", 3.75, 1e-12))
			Expect(v.H).To(BeNumerically("~", 2.5, 1e-12))
		}),
		Entry("pan left", session.PanLeft, func(v viewport.Viewport) {
			Expect(v.X).To(BeNumerically("~", -2.3, 1e-12))
		}),
		Entry("pan right", session.PanRight, func(v viewport.Viewport) {
			Expect(v.X).To(BeNumerically("~", -1.7, 1e-12))
		}),
		Entry("pan up", session.PanUp, func(v viewport.Viewport) {
			Expect(v.Y).To(BeNumerically("~", -1.2, 1e-12))
		}),
		Entry("pan down", session.PanDown, func(v viewport.Viewport) {
			Expect(v.Y).To(BeNumerically("~", -0.8, 1e-12))
		}),
	)

	It("restores the extent after zoom in then zoom out", func() {
		s.Apply(session.ZoomIn)
		s.Apply(session.ZoomOut)
		Expect(s.View.W).To(BeNumerically("~", 3, 1e-12))
		Expect(s.View.H).To(BeNumerically("~", 2, 1e-12))
	})

	It("ignores unbound commands without marking the view dirty", func() {
		s.Render()
		before := s.View
		Expect(s.Apply(session.None)).To(BeFalse())
		Expect(s.Apply(session.Command(99))).To(BeFalse())
		Expect(s.Dirty).To(BeFalse())
		Expect(s.View).To(Equal(before))
	})

	It("stops running on quit without marking dirty", func() {
		s.Render()
		Expect(s.Apply(session.Quit)).To(BeFalse())
		Expect(s.Running).To(BeFalse())
		Expect(s.Dirty).To(BeFalse())
	})

	It("replaces the view and marks dirty", func() {
		s.Render()
		Expect(s.SetView(viewport.Viewport{X: -1, Y: -1, W: 2, H: 2})).To(Succeed())
		Expect(s.Dirty).To(BeTrue())
		Expect(s.View.W).To(Equal(2.0))
	})

	It("rejects an empty replacement view", func() {
		s.Render()
		err := s.SetView(viewport.Viewport{W: 0, H: 1})
		Expect(err).To(MatchError(viewport.ErrInvalidSize))
		Expect(s.Dirty).To(BeFalse())
	})

	It("marks dirty when the fractal changes", func() {
		s.Render()
		Expect(s.SetParams(fractal.DefaultMandelbrot())).To(Succeed())
		Expect(s.Dirty).To(BeTrue())
	})
})

var _ = DescribeTable("ParseCommand",
	func(name string, want session.Command, bound bool) {
		got, ok := session.ParseCommand(name)
		Expect(ok).To(Equal(bound))
		Expect(got).To(Equal(want))
	},
	Entry("plus", "+", session.ZoomIn, true),
	Entry("keypad plus", "KP_PLUS", session.ZoomIn, true),
	Entry("minus", "-", session.ZoomOut, true),
	Entry("left arrow", "left", session.PanLeft, true),
	Entry("vim right", "l", session.PanRight, true),
	Entry("up arrow", "up", session.PanUp, true),
	Entry("down with spaces", " down ", session.PanDown, true),
	Entry("quit", "q", session.Quit, true),
	Entry("unbound key", "x", session.None, false),
	Entry("empty", "", session.None, false),
)
