// Package monitoring serves the live state of a configuration session
// over HTTP, so an operator can watch a long fleet bring-up from a
// browser or script instead of tailing logs.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	// Profiling endpoints.
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"

	"github.com/casm-project/snapfleet/fleet"
	"github.com/casm-project/snapfleet/logger"
)

// Monitor serves a session's state.
type Monitor struct {
	log        logger.Logger
	session    *fleet.Session
	portNumber int

	url string
}

// NewMonitor creates a Monitor for the given session.
func NewMonitor(session *fleet.Session, log logger.Logger) *Monitor {
	return &Monitor{log: log, session: session}
}

// WithPortNumber sets the port to listen on. Ports below 1000 are
// refused; a random port is used instead.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber > 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server. "+
				"Using a random port instead.\n", portNumber)
		portNumber = 0
	}
	m.portNumber = portNumber
	return m
}

// URL returns the server's address once StartServer has run.
func (m *Monitor) URL() string {
	return m.url
}

// StartServer begins serving in the background and returns the URL.
func (m *Monitor) StartServer() (string, error) {
	r := mux.NewRouter()
	r.HandleFunc("/api/fleet", m.fleetState)
	r.HandleFunc("/api/board/{host}", m.boardState)
	r.HandleFunc("/api/resource", m.listResources)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	m.log.Infof("monitoring session at %s", m.url)

	go func() {
		if err := http.Serve(listener, r); err != nil {
			m.log.Errorf("monitoring server stopped: %v", err)
		}
	}()

	return m.url, nil
}

func (m *Monitor) fleetState(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, m.session.Snapshot())
}

func (m *Monitor) boardState(w http.ResponseWriter, r *http.Request) {
	host := mux.Vars(r)["host"]
	for _, b := range m.session.Snapshot().Boards {
		if b.Host == host {
			m.writeJSON(w, b)
			return
		}
	}
	http.Error(w, "unknown board "+host, http.StatusNotFound)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	memory, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
	})
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		m.log.Errorf("writing monitoring response: %v", err)
	}
}
