package monitoring

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/paulmach/orb"

	"github.com/sarchlab/dtnsim/dtn"
	"github.com/sarchlab/dtnsim/geo"
	"github.com/sarchlab/dtnsim/routing"
	"github.com/sarchlab/dtnsim/sim"
	"github.com/sarchlab/dtnsim/tracing"
)

type fixedStats struct {
	stats tracing.Stats
}

func (s fixedStats) Stats() tracing.Stats { return s.stats }

var _ = Describe("Monitor", func() {
	var (
		engine *sim.SerialEngine
		world  *dtn.World
		m      *Monitor
		server *httptest.Server
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		world = dtn.MakeBuilder().
			WithEngine(engine).
			WithEndTime(10).
			Build("World")

		for i, name := range []string{"A", "B"} {
			router, err := routing.New(routing.DistanceLoadName)
			Expect(err).NotTo(HaveOccurred())

			_, err = world.AddNode(name,
				dtn.NewStationary(orb.Point{float64(i * 5), 0}), 1000, router)
			Expect(err).NotTo(HaveOccurred())
		}

		Expect(world.CreateMessage(dtn.NewMessage("m1", "A", "B", 100, 0, 0))).
			To(Succeed())

		m = NewMonitor()
		m.RegisterEngine(engine)
		m.RegisterWorld(world)
		m.RegisterStats(fixedStats{tracing.Stats{Created: 3, Delivered: 1}})

		server = httptest.NewServer(m.Router())
	})

	AfterEach(func() {
		server.Close()
	})

	get := func(path string) *http.Response {
		rsp, err := http.Get(server.URL + path)
		Expect(err).NotTo(HaveOccurred())
		return rsp
	}

	decode := func(rsp *http.Response, v any) {
		defer rsp.Body.Close()
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
		Expect(json.NewDecoder(rsp.Body).Decode(v)).To(Succeed())
	}

	It("should report the current time", func() {
		var now struct{ Now float64 }
		decode(get("/api/now"), &now)

		Expect(now.Now).To(BeZero())
	})

	It("should report the progress", func() {
		var p progressRsp
		decode(get("/api/progress"), &p)

		Expect(p.End).To(BeNumerically("~", 10, 1e-9))
	})

	It("should pause and continue the engine", func() {
		get("/api/pause").Body.Close()
		Expect(engine.IsPaused()).To(BeTrue())

		get("/api/continue").Body.Close()
		Expect(engine.IsPaused()).To(BeFalse())
	})

	It("should report statistics", func() {
		var s tracing.Stats
		decode(get("/api/stats"), &s)

		Expect(s.Created).To(Equal(3))
		Expect(s.Delivered).To(Equal(1))
	})

	It("should list nodes", func() {
		var nodes []nodeRsp
		decode(get("/api/nodes"), &nodes)

		Expect(nodes).To(HaveLen(2))
		Expect(nodes[0].Name).To(Equal("A"))
		Expect(nodes[0].Messages).To(Equal(1))
		Expect(nodes[0].BufferUsed).To(Equal(100))
		Expect(nodes[1].X).To(BeNumerically("~", 5, 1e-9))
	})

	It("should serialize a node", func() {
		rsp := get("/api/node/A")
		defer rsp.Body.Close()

		Expect(rsp.StatusCode).To(Equal(http.StatusOK))

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(body).NotTo(BeEmpty())
	})

	It("should describe a node", func() {
		d := describeNode(world.NodeByName("A"))

		Expect(d.Name).To(Equal("A"))
		Expect(d.Router).To(Equal(routing.DistanceLoadName))
		Expect(d.Path).To(BeEmpty())
		Expect(d.Messages).To(HaveLen(1))
		Expect(d.Messages[0].Destination).To(Equal("B"))
		Expect(d.BufferUsed).To(Equal(100))
	})

	It("should return 404 for unknown nodes", func() {
		rsp := get("/api/node/Q")
		defer rsp.Body.Close()

		Expect(rsp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should report resource usage", func() {
		var r resourceRsp
		decode(get("/api/resource"), &r)

		Expect(r.MemorySize).To(BeNumerically(">", 0))
	})

	It("should export metrics", func() {
		rsp := get("/metrics")
		defer rsp.Body.Close()

		Expect(rsp.StatusCode).To(Equal(http.StatusOK))

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring(`dtnsim_messages{event="created"} 3`))
		Expect(string(body)).To(ContainSubstring(`dtnsim_messages{event="delivered"} 1`))
		Expect(string(body)).To(ContainSubstring("dtnsim_nodes 2"))
	})

	It("should serve the web page", func() {
		rsp := get("/")
		defer rsp.Body.Close()

		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
	})
})

var _ = Describe("Monitor on a running simulation", func() {
	It("should serve node data while the engine runs", func() {
		engine := sim.NewSerialEngine()
		area := geo.Area{Width: 300, Height: 300}
		world := dtn.MakeBuilder().
			WithEngine(engine).
			WithArea(area).
			WithRadioRange(40).
			WithEndTime(3000).
			Build("World")

		rng := rand.New(rand.NewPCG(7, 7))
		for i := 0; i < 20; i++ {
			router, err := routing.New(routing.DistanceLoadName)
			Expect(err).NotTo(HaveOccurred())

			_, err = world.AddNode(fmt.Sprintf("n%d", i),
				dtn.NewRandomWaypoint(rng, area, 1, 5, 3), 100000, router)
			Expect(err).NotTo(HaveOccurred())
		}

		m := NewMonitor()
		m.RegisterEngine(engine)
		m.RegisterWorld(world)
		server := httptest.NewServer(m.Router())
		defer server.Close()

		world.Start()
		done := make(chan error, 1)
		go func() { done <- engine.Run() }()

		polls := 0
		for running := true; running; {
			select {
			case err := <-done:
				Expect(err).NotTo(HaveOccurred())
				running = false
			default:
			}

			for _, path := range []string{"/api/nodes", "/api/node/n3", "/metrics"} {
				rsp, err := http.Get(server.URL + path)
				Expect(err).NotTo(HaveOccurred())
				_, err = io.Copy(io.Discard, rsp.Body)
				Expect(err).NotTo(HaveOccurred())
				rsp.Body.Close()
				Expect(rsp.StatusCode).To(Equal(http.StatusOK))
			}
			polls++
		}

		Expect(polls).To(BeNumerically(">", 0))
	})
})
