package simboard

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/casm-project/snapfleet/fengine"
)

func init() {
	fengine.Register("sim", NewConnector(Options{}))
}

// Connector hands out simulated boards by hostname. Connecting to the
// same host twice returns the same board, so a configuration session and
// its verification steps see consistent state.
type Connector struct {
	mu       sync.Mutex
	defaults Options
	perHost  map[string]Options
	boards   map[string]*Board
}

var _ fengine.Connector = (*Connector)(nil)
var _ fengine.Dialer = (*Connector)(nil)

// NewConnector creates a Connector applying the given options to every
// board.
func NewConnector(defaults Options) *Connector {
	return &Connector{
		defaults: defaults,
		perHost:  make(map[string]Options),
		boards:   make(map[string]*Board),
	}
}

// WithBoard overrides the options for one host. Must be called before the
// host is first connected.
func (c *Connector) WithBoard(host string, opts Options) *Connector {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.perHost[host] = opts
	return c
}

// Board returns the simulated board for a host, or nil if it was never
// connected. Test inspection hook.
func (c *Connector) Board(host string) *Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.boards[host]
}

func (c *Connector) options(host string) Options {
	if opts, ok := c.perHost[host]; ok {
		return opts
	}
	return c.defaults
}

// Connect returns the live handle for a host.
func (c *Connector) Connect(ctx context.Context, host string) (fengine.Fengine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	opts := c.options(host)
	if opts.Unreachable {
		return nil, errors.Errorf("no route to host %s", host)
	}

	board, ok := c.boards[host]
	if !ok {
		board = New(host, opts)
		c.boards[host] = board
	}
	return board, nil
}

// Dial opens a simulated low-level programming transport.
func (c *Connector) Dial(ctx context.Context, host string) (fengine.Transport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.options(host).Unreachable {
		return nil, errors.Errorf("no route to host %s", host)
	}
	return &simTransport{}, nil
}

type simTransport struct{}

func (t *simTransport) Upload(ctx context.Context, bitstream string) error {
	return ctx.Err()
}

func (t *simTransport) Close() error {
	return nil
}
