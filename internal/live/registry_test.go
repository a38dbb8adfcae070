package live

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/3-lines-studio/starter/internal/component"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func counterFactory() component.Component {
	return component.NewCounter("3000")
}

// drifting renders a different string every time it is asked.
type drifting struct {
	n int
}

func (d *drifting) Render(w io.Writer) error {
	d.n++
	_, err := io.WriteString(w, strings.Repeat("x", d.n))
	return err
}

func render(s *Session) string {
	var buf bytes.Buffer
	Expect(s.Render(&buf)).To(Succeed())
	return buf.String()
}

var _ = Describe("Registry", func() {
	var registry *Registry

	BeforeEach(func() {
		registry = NewRegistry(counterFactory, Options{})
	})

	It("should mount every page load on its own session", func() {
		a := registry.Mount()
		b := registry.Mount()

		Expect(a.ID()).NotTo(BeEmpty())
		Expect(a.ID()).NotTo(Equal(b.ID()))
		Expect(registry.Len()).To(Equal(2))
	})

	It("should start every counter at zero", func() {
		s := registry.Mount()

		Expect(render(s)).To(ContainSubstring(`<h2 data-role="count">0</h2>`))
	})

	It("should let a session be claimed exactly once", func() {
		s := registry.Mount()

		claimed, err := registry.Claim(s.ID())
		Expect(err).NotTo(HaveOccurred())
		Expect(claimed).To(BeIdenticalTo(s))

		_, err = registry.Claim(s.ID())
		Expect(err).To(MatchError(ErrSessionClaimed))
	})

	It("should reject unknown sessions", func() {
		_, err := registry.Claim("nope")
		Expect(err).To(MatchError(ErrSessionNotFound))
	})

	It("should forget unmounted sessions", func() {
		s := registry.Mount()
		registry.Unmount(s.ID())

		Expect(registry.Len()).To(BeZero())
		_, err := registry.Claim(s.ID())
		Expect(err).To(MatchError(ErrSessionNotFound))
	})

	Describe("Sweep", func() {
		var clock time.Time

		BeforeEach(func() {
			clock = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			registry = NewRegistry(counterFactory, Options{TTL: time.Minute})
			registry.now = func() time.Time { return clock }
		})

		It("should drop sessions nobody claimed in time", func() {
			stale := registry.Mount()
			claimed := registry.Mount()
			_, err := registry.Claim(claimed.ID())
			Expect(err).NotTo(HaveOccurred())

			clock = clock.Add(30 * time.Second)
			fresh := registry.Mount()

			clock = clock.Add(45 * time.Second)
			Expect(registry.Sweep()).To(Equal(1))

			_, err = registry.Claim(stale.ID())
			Expect(err).To(MatchError(ErrSessionNotFound))
			_, err = registry.Claim(fresh.ID())
			Expect(err).NotTo(HaveOccurred())
			Expect(registry.Len()).To(Equal(2))
		})
	})

	Describe("strict mode", func() {
		It("should surface impure renders", func() {
			registry = NewRegistry(func() component.Component { return &drifting{} }, Options{Strict: true})
			s := registry.Mount()

			err := s.Render(io.Discard)
			Expect(err).To(MatchError(component.ErrImpureRender))
		})

		It("should leave pure components alone", func() {
			registry = NewRegistry(counterFactory, Options{Strict: true})
			s := registry.Mount()

			markup, changed, err := s.Dispatch(component.EventIncrement)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())
			Expect(string(markup)).To(ContainSubstring(`<h2 data-role="count">1</h2>`))
		})
	})
})

var _ = Describe("Session", func() {
	var session *Session

	BeforeEach(func() {
		session = NewRegistry(counterFactory, Options{}).Mount()
	})

	It("should count every increment", func() {
		var markup []byte
		for i := 0; i < 5; i++ {
			var err error
			markup, _, err = session.Dispatch(component.EventIncrement)
			Expect(err).NotTo(HaveOccurred())
		}

		Expect(string(markup)).To(ContainSubstring(`<h2 data-role="count">5</h2>`))
		Expect(render(session)).To(Equal(string(markup)))
	})

	It("should report unknown events without rendering", func() {
		markup, changed, err := session.Dispatch("decrement")

		Expect(err).To(MatchError(component.ErrUnknownEvent))
		Expect(changed).To(BeFalse())
		Expect(markup).To(BeNil())
		Expect(render(session)).To(ContainSubstring(`<h2 data-role="count">0</h2>`))
	})

	It("should reject events for components without handlers", func() {
		s := NewRegistry(func() component.Component { return &drifting{} }, Options{}).Mount()

		_, _, err := s.Dispatch(component.EventIncrement)
		Expect(err).To(MatchError(component.ErrUnknownEvent))
	})
})
