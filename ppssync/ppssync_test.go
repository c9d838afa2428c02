package ppssync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casm-project/snapfleet/fengine"
	"github.com/casm-project/snapfleet/fengine/simboard"
	"github.com/casm-project/snapfleet/ppssync"
)

const ppsInterval = 50 * time.Millisecond

func makeCoordinator() *ppssync.Coordinator {
	return ppssync.MakeBuilder().
		WithEdgeTimeout(time.Second).
		Build()
}

func makeFleet(opts ...simboard.Options) []fengine.Fengine {
	boards := make([]fengine.Fengine, 0, len(opts))
	for i, o := range opts {
		if o.PPSInterval == 0 {
			o.PPSInterval = ppsInterval
		}
		host := string(rune('a'+i)) + "-snap"
		boards = append(boards, simboard.New(host, o))
	}
	return boards
}

func TestHealthyFleetSynchronizes(t *testing.T) {
	boards := makeFleet(
		simboard.Options{},
		simboard.Options{},
		simboard.Options{},
	)

	report, err := makeCoordinator().Run(context.Background(), boards)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.True(t, report.Healthy())
	require.Len(t, report.Checks, 3)
	for _, c := range report.Checks {
		assert.True(t, c.OK, "%s tick check", c.Host)
		assert.Equal(t, c.First.PPSCount+1, c.Second.PPSCount)
	}

	require.Len(t, report.Deltas, 3)
	for _, d := range report.Deltas {
		require.NoError(t, d.Err)
		assert.Equal(t, uint64(simboard.PeriodTicks), d.PeriodTicks)
		assert.InDelta(t, 0, d.Seconds, 0.01, "%s delta", d.Host)
	}
}

func TestEmptyFleetIsTriviallyHealthy(t *testing.T) {
	report, err := makeCoordinator().Run(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, report.Healthy())
	assert.Empty(t, report.Checks)
	assert.Empty(t, report.Deltas)
}

func TestSkippingPPSFailsTickCheck(t *testing.T) {
	boards := makeFleet(
		simboard.Options{},
		simboard.Options{PPSSkip: true},
	)

	report, err := makeCoordinator().Run(context.Background(), boards)
	require.NoError(t, err)

	assert.False(t, report.Healthy())
	require.Len(t, report.Checks, 2)
	assert.True(t, report.Checks[0].OK)
	assert.False(t, report.Checks[1].OK)

	// The skew accumulates across reads, so the skipping board's
	// verification count disagrees with the reference board too.
	assert.True(t, report.Mismatch)

	// Both boards still report a verification delta.
	require.Len(t, report.Deltas, 2)
	for _, d := range report.Deltas {
		assert.NoError(t, d.Err)
	}
}

func TestDeadPPSTimesOut(t *testing.T) {
	boards := makeFleet(
		simboard.Options{},
		simboard.Options{PPSDead: true},
	)

	coord := ppssync.MakeBuilder().
		WithEdgeTimeout(100 * time.Millisecond).
		Build()

	report, err := coord.Run(context.Background(), boards)
	require.NoError(t, err, "a dead non-reference board must not abort the run")

	assert.False(t, report.Healthy())

	var ppsErr *fengine.PPSTimeoutError
	require.Error(t, report.Checks[1].Err)
	require.ErrorAs(t, report.Checks[1].Err, &ppsErr)
	assert.Equal(t, "b-snap", ppsErr.Host)

	require.Error(t, report.Deltas[1].Err)
	assert.ErrorAs(t, report.Deltas[1].Err, &ppsErr)

	// The healthy reference board is unaffected.
	assert.True(t, report.Checks[0].OK)
	assert.NoError(t, report.Deltas[0].Err)
}

func TestDeadReferenceBoardAbortsAlignment(t *testing.T) {
	boards := makeFleet(
		simboard.Options{PPSDead: true},
		simboard.Options{},
	)

	coord := ppssync.MakeBuilder().
		WithEdgeTimeout(100 * time.Millisecond).
		Build()

	report, err := coord.Run(context.Background(), boards)
	require.Error(t, err)

	var ppsErr *fengine.PPSTimeoutError
	assert.ErrorAs(t, err, &ppsErr)

	// Tick checks ran before alignment and are still reported.
	require.Len(t, report.Checks, 2)
	assert.True(t, report.Checks[1].OK)
}

func TestSkewedTelescopeTimeShowsInDelta(t *testing.T) {
	const offset = simboard.PeriodTicks / 4

	boards := makeFleet(
		simboard.Options{},
		simboard.Options{TTOffsetTicks: offset},
	)

	report, err := makeCoordinator().Run(context.Background(), boards)
	require.NoError(t, err)

	require.Len(t, report.Deltas, 2)
	require.NoError(t, report.Deltas[1].Err)
	assert.InDelta(t, 0.25, report.Deltas[1].Seconds, 0.01)
}
