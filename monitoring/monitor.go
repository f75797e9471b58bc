package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/dtnsim/dtn"
	"github.com/sarchlab/dtnsim/monitoring/web"
	"github.com/sarchlab/dtnsim/sim"
	"github.com/sarchlab/dtnsim/tracing"
)

// StatsProvider reports the message statistics of a running simulation.
type StatsProvider interface {
	Stats() tracing.Stats
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	engine     sim.Engine
	world      *dtn.World
	stats      StatsProvider
	portNumber int
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that is used in the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterWorld registers the world whose nodes are reported.
func (m *Monitor) RegisterWorld(w *dtn.World) {
	m.world = w
}

// RegisterStats registers where the message statistics come from.
func (m *Monitor) RegisterStats(s StatsProvider) {
	m.stats = s
}

// Router returns the HTTP routes of the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/progress", m.progress)
	r.HandleFunc("/api/stats", m.reportStats)
	r.HandleFunc("/api/nodes", m.listNodes)
	r.HandleFunc("/api/node/{name}", m.nodeDetails)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.Handle("/metrics", m.metricsHandler())
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	r := m.Router()
	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()

	return url
}

// OpenInBrowser opens the monitoring page in the default browser.
func OpenInBrowser(url string) error {
	return browser.OpenURL(url)
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%.10f}", now)
}

type progressRsp struct {
	Now float64 `json:"now"`
	End float64 `json:"end"`
}

func (m *Monitor) progress(w http.ResponseWriter, _ *http.Request) {
	rsp := progressRsp{Now: float64(m.engine.CurrentTime())}
	if m.world != nil {
		rsp.End = float64(m.world.EndTime())
	}

	writeJSON(w, rsp)
}

func (m *Monitor) reportStats(w http.ResponseWriter, _ *http.Request) {
	if m.stats == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(w, m.stats.Stats())
}

type nodeRsp struct {
	Name        string  `json:"name"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Connections int     `json:"connections"`
	Messages    int     `json:"messages"`
	BufferUsed  int     `json:"buffer_used"`
	BufferCap   int     `json:"buffer_cap"`
}

// inspect reads the world between two events of the engine.
func (m *Monitor) inspect(f func()) {
	if m.engine == nil {
		f()
		return
	}

	m.engine.Inspect(f)
}

func (m *Monitor) listNodes(w http.ResponseWriter, _ *http.Request) {
	rsp := []nodeRsp{}

	if m.world == nil {
		writeJSON(w, rsp)
		return
	}

	m.inspect(func() {
		for _, n := range m.world.Nodes() {
			loc := n.Location()
			rsp = append(rsp, nodeRsp{
				Name:        n.Name(),
				X:           loc.X(),
				Y:           loc.Y(),
				Connections: n.NumConnections(),
				Messages:    n.NumMessages(),
				BufferUsed:  n.Buffer().Used(),
				BufferCap:   n.Buffer().Capacity(),
			})
		}
	})

	writeJSON(w, rsp)
}

func (m *Monitor) nodeDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var detail *nodeDetail
	m.inspect(func() {
		if node := m.findNode(name); node != nil {
			detail = describeNode(node)
		}
	})

	if detail == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Node not found"))
		dieOnErr(err)

		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(detail)
	serializer.SetMaxDepth(2)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type messageDetail struct {
	ID          string
	Source      string
	Destination string
	Size        int
	Hops        int
	CreatedAt   float64
}

type nodeDetail struct {
	Name       string
	Router     string
	X, Y       float64
	Path       []float64
	Neighbors  []string
	BufferUsed int
	BufferCap  int
	Messages   []messageDetail
}

func describeNode(n *dtn.Node) *nodeDetail {
	loc := n.Location()
	d := &nodeDetail{
		Name:       n.Name(),
		X:          loc.X(),
		Y:          loc.Y(),
		BufferUsed: n.Buffer().Used(),
		BufferCap:  n.Buffer().Capacity(),
	}

	if r := n.Router(); r != nil {
		d.Router = r.Name()
	}

	for _, p := range n.Path() {
		d.Path = append(d.Path, p.X(), p.Y())
	}

	for _, c := range n.LiveConnections() {
		d.Neighbors = append(d.Neighbors, c.OtherNode(n).Name())
	}

	for _, m := range n.Buffer().Messages() {
		d.Messages = append(d.Messages, messageDetail{
			ID:          m.ID(),
			Source:      m.Source(),
			Destination: m.Destination(),
			Size:        m.Size(),
			Hops:        m.Hops(),
			CreatedAt:   float64(m.CreatedAt()),
		})
	}

	return d
}

func (m *Monitor) findNode(name string) *dtn.Node {
	if m.world == nil {
		return nil
	}

	return m.world.NodeByName(name)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
