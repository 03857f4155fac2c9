// Package simulation assembles a scheduler with the recording and monitoring
// services that observe it.
package simulation

import (
	"github.com/desimlab/desim/monitoring"
	"github.com/desimlab/desim/recording"
	"github.com/desimlab/desim/sim"
)

// A Simulation provides the services required to run a simulation.
type Simulation struct {
	id        string
	scheduler *sim.EventScheduler
	recorder  recording.DataRecorder
	monitor   *monitoring.Monitor
}

// ID returns the ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetScheduler returns the scheduler used in the simulation.
func (s *Simulation) GetScheduler() *sim.EventScheduler {
	return s.scheduler
}

// GetDataRecorder returns the data recorder used in the simulation, or nil
// if recording is disabled.
func (s *Simulation) GetDataRecorder() recording.DataRecorder {
	return s.recorder
}

// GetMonitor returns the monitor used in the simulation, or nil if
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// Terminate terminates the simulation, flushing and closing the recorder.
func (s *Simulation) Terminate() {
	if s.recorder != nil {
		s.recorder.Close()
	}
}
