// Package monitoring turns a running simulation into an HTTP server so that
// its progress can be inspected from outside the process.
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

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"

	"github.com/desimlab/desim/sim"
)

// Monitor exposes the state of a scheduler over HTTP: the current time, the
// next due event, the pending-event count, and the execution log.
type Monitor struct {
	scheduler *sim.EventScheduler

	portNumber    int
	launchBrowser bool
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowserLaunch makes StartServer open the monitor URL in the default
// browser.
func (m *Monitor) WithBrowserLaunch() *Monitor {
	m.launchBrowser = true
	return m
}

// RegisterScheduler registers the scheduler to be monitored.
func (m *Monitor) RegisterScheduler(s *sim.EventScheduler) {
	m.scheduler = s
}

// StartServer starts the monitor as a web server, on the configured port or
// a random free one.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/next", m.next)
	r.HandleFunc("/api/pending", m.pending)
	r.HandleFunc("/api/log", m.listLog)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()

	if m.launchBrowser {
		err := browser.OpenURL(url)
		dieOnErr(err)
	}
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%.10f}", m.scheduler.CurrentTime())
}

func (m *Monitor) next(w http.ResponseWriter, _ *http.Request) {
	next, ok := m.scheduler.NextEventTime()
	if !ok {
		fmt.Fprint(w, "{\"next\":null}")
		return
	}

	fmt.Fprintf(w, "{\"next\":%.10f}", next)
}

func (m *Monitor) pending(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"pending\":%d}", m.scheduler.PendingEventCount())
}

type logEntryRsp struct {
	ID      string            `json:"id"`
	Time    float64           `json:"time"`
	Context map[string]string `json:"context,omitempty"`
	Outcome string            `json:"outcome,omitempty"`
}

type logRsp struct {
	Total   int           `json:"total"`
	Records []logEntryRsp `json:"records"`
}

func (m *Monitor) listLog(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := logParseParams(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	records := m.scheduler.Log()

	rsp := logRsp{
		Total:   len(records),
		Records: []logEntryRsp{},
	}

	if offset < len(records) {
		end := len(records)
		if limit > 0 && offset+limit < end {
			end = offset + limit
		}

		for _, record := range records[offset:end] {
			rsp.Records = append(rsp.Records, logEntryRsp{
				ID:      record.ID,
				Time:    float64(record.Time),
				Context: record.Context,
				Outcome: record.Outcome,
			})
		}
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func logParseParams(r *http.Request) (limit, offset int, err error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		limitStr = "0"
	}
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		return 0, 0, fmt.Errorf("invalid limit %q", limitStr)
	}

	offsetStr := r.URL.Query().Get("offset")
	if offsetStr == "" {
		offsetStr = "0"
	}
	offset, err = strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		return limit, 0, fmt.Errorf("invalid offset %q", offsetStr)
	}

	return limit, offset, nil
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

	memoryInfo, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
