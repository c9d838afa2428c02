package fengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casm-project/snapfleet/fengine"
)

type nopConnector struct{}

func (nopConnector) Connect(ctx context.Context, host string) (fengine.Fengine, error) {
	return nil, nil
}

func TestRegisterAndOpen(t *testing.T) {
	fengine.Register("test-transport", nopConnector{})

	c, err := fengine.Open("test-transport")
	require.NoError(t, err)
	assert.NotNil(t, c)

	assert.Contains(t, fengine.Transports(), "test-transport")
}

func TestOpenUnknownTransport(t *testing.T) {
	_, err := fengine.Open("no-such-transport")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}

func TestRegisterRejectsDuplicatesAndNil(t *testing.T) {
	fengine.Register("dup-transport", nopConnector{})

	assert.Panics(t, func() {
		fengine.Register("dup-transport", nopConnector{})
	})
	assert.Panics(t, func() {
		fengine.Register("nil-transport", nil)
	})
}

func TestErrorUnwrapping(t *testing.T) {
	inner := assert.AnError

	connErr := &fengine.ConnectionError{Host: "snap01", Err: inner}
	assert.ErrorIs(t, connErr, inner)
	assert.Contains(t, connErr.Error(), "snap01")

	progErr := &fengine.ProgrammingError{Host: "snap01", Err: inner}
	assert.ErrorIs(t, progErr, inner)
}
