package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/3-lines-studio/starter/internal/component"
	"github.com/3-lines-studio/starter/internal/core"
	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func wsURL(server *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + path
}

var _ = Describe("SocketHandler", func() {
	var (
		registry *Registry
		server   *httptest.Server
	)

	BeforeEach(func() {
		registry = NewRegistry(counterFactory, Options{})
		server = httptest.NewServer(NewSocketHandler(registry))
	})

	AfterEach(func() {
		server.Close()
	})

	dial := func(id string) *websocket.Conn {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, SocketPath+"?session="+id), nil)
		Expect(err).NotTo(HaveOccurred())
		return conn
	}

	It("should render after every increment", func() {
		s := registry.Mount()
		conn := dial(s.ID())
		defer conn.Close()

		for i := 1; i <= 3; i++ {
			Expect(conn.WriteJSON(ClientMessage{Type: TypeEvent, Event: component.EventIncrement})).To(Succeed())

			var msg ServerMessage
			Expect(conn.ReadJSON(&msg)).To(Succeed())
			Expect(msg.Type).To(Equal(TypeRender))
			Expect(msg.HTML).To(ContainSubstring(`<h2 data-role="count">` + string(rune('0'+i)) + `</h2>`))
		}
	})

	It("should answer unknown events with an error message", func() {
		s := registry.Mount()
		conn := dial(s.ID())
		defer conn.Close()

		Expect(conn.WriteJSON(ClientMessage{Type: TypeEvent, Event: "explode"})).To(Succeed())

		var msg ServerMessage
		Expect(conn.ReadJSON(&msg)).To(Succeed())
		Expect(msg.Type).To(Equal(TypeError))
		Expect(msg.Message).To(ContainSubstring("unknown event"))
	})

	It("should answer unsupported message types with an error message", func() {
		s := registry.Mount()
		conn := dial(s.ID())
		defer conn.Close()

		Expect(conn.WriteJSON(ClientMessage{Type: "poke"})).To(Succeed())

		var msg ServerMessage
		Expect(conn.ReadJSON(&msg)).To(Succeed())
		Expect(msg.Type).To(Equal(TypeError))
	})

	It("should refuse a second claim", func() {
		s := registry.Mount()
		conn := dial(s.ID())
		defer conn.Close()

		_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, SocketPath+"?session="+s.ID()), nil)
		Expect(err).To(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusConflict))
	})

	It("should refuse unknown sessions", func() {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, SocketPath+"?session=missing"), nil)
		Expect(err).To(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should unmount the session when the socket closes", func() {
		s := registry.Mount()
		conn := dial(s.ID())
		Expect(conn.Close()).To(Succeed())

		Eventually(registry.Len, time.Second).Should(BeZero())
	})
})

var _ = Describe("Hub", func() {
	It("should replay pending build errors to new subscribers", func() {
		hub := NewHub(nil)
		hub.Fail([]core.BuildMessage{{Text: "Unexpected \";\"", File: "src/main.js", Line: 1}})

		ch := hub.Subscribe()
		defer hub.Unsubscribe(ch)

		msg := <-ch
		Expect(msg.Type).To(Equal(TypeError))
		Expect(msg.Errors).To(HaveLen(1))
	})

	It("should greet new subscribers with ok after a good build", func() {
		hub := NewHub(nil)
		hub.Reload("build-1")

		ch := hub.Subscribe()
		defer hub.Unsubscribe(ch)

		Expect(<-ch).To(Equal(ReloadMessage{Type: TypeOK}))
	})

	It("should keep only the newest message for slow subscribers", func() {
		hub := NewHub(nil)
		ch := hub.Subscribe()
		defer hub.Unsubscribe(ch)

		hub.Reload("a")
		hub.Reload("b")
		hub.Reload("c")

		Expect(<-ch).To(Equal(ReloadMessage{Type: TypeReload, Build: "c"}))
		Consistently(ch).ShouldNot(Receive())
	})

	It("should push reloads over the socket", func() {
		hub := NewHub(core.ShouldOverlay)
		server := httptest.NewServer(hub)
		defer server.Close()

		conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, ReloadPath), nil)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		var greeting ReloadMessage
		Expect(conn.ReadJSON(&greeting)).To(Succeed())
		Expect(greeting.Type).To(Equal(TypeOK))

		Eventually(hub.Subscribers).Should(Equal(1))
		Expect(conn.WriteJSON(RuntimeReport{
			Type:  TypeRuntimeError,
			Error: core.RuntimeError{Name: "AbortError", Message: "The user aborted a request."},
		})).To(Succeed())

		hub.Reload("next")

		var msg ReloadMessage
		Expect(conn.ReadJSON(&msg)).To(Succeed())
		Expect(msg).To(Equal(ReloadMessage{Type: TypeReload, Build: "next"}))
	})
})

var _ = Describe("InjectReloadScript", func() {
	It("should place the client before the body end tag", func() {
		page := InjectReloadScript([]byte("<html><body><div id=\"app\"></div></body></html>"))

		Expect(string(page)).To(MatchRegexp(`(?s)<div id="app"></div><script>.*__starter_reload.*</script></body></html>$`))
	})

	It("should append when there is no body end tag", func() {
		page := InjectReloadScript([]byte("<p>hi"))

		Expect(string(page)).To(HavePrefix("<p>hi<script>"))
	})

	It("should not inject twice", func() {
		once := InjectReloadScript([]byte("<body></body>"))

		Expect(InjectReloadScript(once)).To(Equal(once))
	})
})
