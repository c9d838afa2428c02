package monitoring_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casm-project/snapfleet/fleet"
	"github.com/casm-project/snapfleet/logger"
	"github.com/casm-project/snapfleet/monitoring"
)

func startMonitor(t *testing.T) (*monitoring.Monitor, string) {
	t.Helper()

	session := fleet.NewSession([]string{"snap01", "snap02"})
	m := monitoring.NewMonitor(session, logger.Nop)

	url, err := m.StartServer()
	require.NoError(t, err)
	return m, url
}

func TestFleetEndpointServesSnapshot(t *testing.T) {
	_, url := startMonitor(t)

	rsp, err := http.Get(url + "/api/fleet")
	require.NoError(t, err)
	defer rsp.Body.Close()
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	var snap fleet.Snapshot
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&snap))

	assert.NotEmpty(t, snap.RunID)
	assert.Equal(t, fleet.PhasePending, snap.Phase)
	assert.Equal(t, 2, snap.Attempted)
	require.Len(t, snap.Boards, 2)
	assert.Equal(t, "snap01", snap.Boards[0].Host)
}

func TestBoardEndpoint(t *testing.T) {
	_, url := startMonitor(t)

	rsp, err := http.Get(url + "/api/board/snap02")
	require.NoError(t, err)
	defer rsp.Body.Close()
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	var status fleet.BoardStatus
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&status))
	assert.Equal(t, "snap02", status.Host)
	assert.Equal(t, "disconnected", status.State)

	rsp, err = http.Get(url + "/api/board/nosuch")
	require.NoError(t, err)
	defer rsp.Body.Close()
	assert.Equal(t, http.StatusNotFound, rsp.StatusCode)
}

func TestLowPortFallsBackToRandom(t *testing.T) {
	session := fleet.NewSession(nil)
	m := monitoring.NewMonitor(session, logger.Nop).WithPortNumber(80)

	url, err := m.StartServer()
	require.NoError(t, err)
	assert.NotEqual(t, "http://localhost:80", url)
	assert.Equal(t, url, m.URL())
}
