// Package simulation assembles a DTN world with its recording, statistics
// and monitoring from a configuration.
package simulation

import (
	"fmt"
	"strconv"

	"github.com/sarchlab/dtnsim/datarecording"
	"github.com/sarchlab/dtnsim/dtn"
	"github.com/sarchlab/dtnsim/monitoring"
	"github.com/sarchlab/dtnsim/sim"
	"github.com/sarchlab/dtnsim/tracing"
)

// A Simulation owns everything that takes part in a run.
type Simulation struct {
	id     string
	engine *sim.SerialEngine
	world  *dtn.World
	stats  *tracing.StatsCollector

	dataRecorder datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
	tracer       *tracing.DBTracer
	monitor      *monitoring.Monitor
	monitorURL   string
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetWorld returns the simulated world.
func (s *Simulation) GetWorld() *dtn.World {
	return s.world
}

// GetDataRecorder returns the data recorder used in the simulation. It is nil
// when recording is turned off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation, if any.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitoring server, if any.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// Stats returns the message statistics collected so far.
func (s *Simulation) Stats() tracing.Stats {
	return s.stats.Stats()
}

// Run runs the world until its end time.
func (s *Simulation) Run() error {
	if s.execRecorder != nil {
		s.execRecorder.Start()
	}

	s.world.Start()

	if err := s.engine.Run(); err != nil {
		return fmt.Errorf("running simulation %s: %w", s.id, err)
	}

	s.engine.Finished()

	if s.tracer != nil {
		s.tracer.Flush()
	}

	if s.execRecorder != nil {
		stats := s.Stats()
		s.execRecorder.Set("Delivered", strconv.Itoa(stats.Delivered))
		s.execRecorder.Set("Delivery Probability",
			strconv.FormatFloat(stats.DeliveryProb, 'f', 6, 64))
		s.execRecorder.End()
	}

	return nil
}

// Terminate terminates the simulation.
func (s *Simulation) Terminate() error {
	if s.dataRecorder == nil {
		return nil
	}

	return s.dataRecorder.Close()
}
