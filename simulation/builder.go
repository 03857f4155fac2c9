package simulation

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/xid"

	"github.com/desimlab/desim/monitoring"
	"github.com/desimlab/desim/recording"
	"github.com/desimlab/desim/sim"
)

// Builder can be used to build a simulation.
type Builder struct {
	recordingOn    bool
	monitorOn      bool
	monitorPort    int
	outputFileName string
}

// MakeBuilder creates a builder with the default options: recording on,
// monitoring off. A .env file, if present, and environment variables
// override the defaults (DESIM_MONITOR, DESIM_MONITOR_PORT, DESIM_OUTPUT).
func MakeBuilder() Builder {
	b := Builder{
		recordingOn: true,
	}

	return b.applyEnvironment()
}

func (b Builder) applyEnvironment() Builder {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("DESIM_MONITOR"); ok {
		b.monitorOn = v == "on" || v == "true" || v == "1"
	}

	if v, ok := os.LookupEnv("DESIM_MONITOR_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			panic("DESIM_MONITOR_PORT must be a number, got " + v)
		}
		b.monitorPort = port
	}

	if v, ok := os.LookupEnv("DESIM_OUTPUT"); ok {
		b.outputFileName = v
	}

	return b
}

// WithMonitoring sets the simulation to serve its state over HTTP.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithoutRecording sets the simulation to not record executed events.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("output file name cannot be set when recording is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id:        xid.New().String(),
		scheduler: sim.NewEventScheduler(),
	}

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "desim_" + s.id
		}

		s.recorder = recording.NewDataRecorder(outputPath)
		s.scheduler.AcceptHook(
			recording.NewExecutionHook(s.recorder, "executions"))
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		s.monitor.RegisterScheduler(s.scheduler)
		s.monitor.StartServer()
	}

	return s
}
