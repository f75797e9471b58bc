package simulation

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/sarchlab/dtnsim/config"
	"github.com/sarchlab/dtnsim/datarecording"
	"github.com/sarchlab/dtnsim/dtn"
	"github.com/sarchlab/dtnsim/geo"
	"github.com/sarchlab/dtnsim/monitoring"
	"github.com/sarchlab/dtnsim/routing"
	"github.com/sarchlab/dtnsim/sim"
	"github.com/sarchlab/dtnsim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	cfg            *config.Config
	recordingOn    bool
	monitorOn      bool
	monitorPort    int
	outputFileName string
	logger         *zap.Logger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		cfg:         config.Default(),
		recordingOn: true,
	}
}

// WithConfig sets the parameters of the simulation.
func (b Builder) WithConfig(cfg *config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithoutRecording sets the simulation to not write a SQLite recording.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
// It takes precedence over the output path of the config.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithMonitor turns on the monitoring server.
func (b Builder) WithMonitor() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort turns on the monitoring server on the given port.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorOn = true
	b.monitorPort = port
	return b
}

// WithLogger sets the logger that receives world and engine events.
func (b Builder) WithLogger(logger *zap.Logger) Builder {
	b.logger = logger
	return b
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	cfg := b.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		id:     xid.New().String(),
		engine: sim.NewSerialEngine(),
		stats:  tracing.NewStatsCollector(),
	}

	s.world = b.buildWorld(s.engine)
	if err := b.populate(s.world); err != nil {
		return nil, err
	}

	s.world.AcceptHook(s.stats)

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = cfg.Output
		}
		if outputPath == "" {
			outputPath = "dtnsim_" + s.id
		}

		recorder, err := datarecording.Open(datarecording.RecorderConfig{
			Type:      cfg.Recorder.Type,
			Path:      outputPath,
			DSN:       cfg.Recorder.DSN,
			BatchSize: cfg.Recorder.BatchSize,
		})
		if err != nil {
			return nil, err
		}

		s.dataRecorder = recorder
		s.execRecorder = datarecording.NewExecRecorder(recorder)
		s.tracer = tracing.NewDBTracer(recorder)
		s.world.AcceptHook(s.tracer)
		b.recordParameters(s)
	}

	if b.logger != nil {
		s.world.AcceptHook(tracing.NewLogHook(b.logger))
		s.engine.AcceptHook(sim.NewEventLogger(b.logger))
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		s.monitor.RegisterEngine(s.engine)
		s.monitor.RegisterWorld(s.world)
		s.monitor.RegisterStats(s.stats)
		s.monitorURL = s.monitor.StartServer()
	}

	return s, nil
}

func (b Builder) recordParameters(s *Simulation) {
	cfg := b.cfg

	s.execRecorder.Set("Simulation ID", s.id)
	s.execRecorder.Set("Router", cfg.Router)
	s.execRecorder.Set("Nodes", strconv.Itoa(cfg.Nodes))
	s.execRecorder.Set("Stationary Nodes", strconv.Itoa(cfg.StationaryNodes))
	s.execRecorder.Set("Radio Range", strconv.FormatFloat(cfg.RadioRange, 'g', -1, 64))
	s.execRecorder.Set("Duration", strconv.FormatFloat(cfg.Duration, 'g', -1, 64))
	s.execRecorder.Set("Seed", strconv.FormatUint(cfg.Seed, 10))
}

func (b Builder) buildWorld(engine sim.Engine) *dtn.World {
	cfg := b.cfg

	return dtn.MakeBuilder().
		WithEngine(engine).
		WithFreq(sim.Freq(cfg.TickFrequency) * sim.Hz).
		WithArea(geo.Area{Width: cfg.Area.Width, Height: cfg.Area.Height}).
		WithRadioRange(cfg.RadioRange).
		WithBandwidth(cfg.Bandwidth).
		WithEndTime(sim.VTimeInSec(cfg.Duration)).
		Build("World")
}

// populate adds the nodes and the traffic generator. Mobility and traffic
// draw from separate streams of the same seed so that changing one does not
// change the other.
func (b Builder) populate(world *dtn.World) error {
	cfg := b.cfg
	mobilityRNG := rand.New(rand.NewPCG(cfg.Seed, 1))
	trafficRNG := rand.New(rand.NewPCG(cfg.Seed, 2))
	area := world.Area()

	for i := 0; i < cfg.Nodes; i++ {
		router, err := routing.New(cfg.Router)
		if err != nil {
			return fmt.Errorf("building node %d: %w", i, err)
		}

		var mobility dtn.Mobility
		var name string
		if i < cfg.StationaryNodes {
			name = fmt.Sprintf("s%d", i)
			mobility = dtn.NewStationary(orb.Point{
				mobilityRNG.Float64() * area.Width,
				mobilityRNG.Float64() * area.Height,
			})
		} else {
			name = fmt.Sprintf("n%d", i)
			mobility = dtn.NewRandomWaypoint(mobilityRNG, area,
				cfg.Mobility.MinSpeed, cfg.Mobility.MaxSpeed,
				cfg.Mobility.Lookahead)
		}

		if _, err := world.AddNode(name, mobility, cfg.BufferSize, router); err != nil {
			return err
		}
	}

	world.SetTraffic(dtn.NewTrafficGenerator(trafficRNG,
		sim.VTimeInSec(cfg.Messages.Interval),
		cfg.Messages.MinSize, cfg.Messages.MaxSize,
		sim.VTimeInSec(cfg.Messages.TTL)))

	return nil
}
