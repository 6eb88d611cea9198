// internal/writer/spi/client.go
package spi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// txer is the part of spi.Conn the client uses.
type txer interface {
	Tx(w, r []byte) error
}

// EndpointClient shifts register words straight into the part. Chip
// select is wired to LE, so each 32-bit transaction latches one word.
type EndpointClient struct {
	mu   sync.Mutex
	conn txer
	port spi.PortCloser
}

type Config struct {
	Port    string // "" = first available bus
	SpeedHz int64
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.SpeedHz <= 0 {
		return nil, errors.New("writer spi: speed required")
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("writer spi: host init: %w", err)
	}

	p, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("writer spi: open %q: %w", cfg.Port, err)
	}

	c, err := p.Connect(physic.Frequency(cfg.SpeedHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("writer spi: connect: %w", err)
	}

	return &EndpointClient{conn: c, port: p}, nil
}

// newWithConn is used by tests.
func newWithConn(c txer) *EndpointClient {
	return &EndpointClient{conn: c}
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port == nil {
		return nil
	}
	err := c.port.Close()
	c.port = nil
	return err
}

// SetRegs clocks each word MSB first in its own transaction.
func (c *EndpointClient) SetRegs(words []uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, w := range words {
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, w)

		if err := c.conn.Tx(buf, nil); err != nil {
			return fmt.Errorf("writer spi: r%d: %w", w&0x7, err)
		}
	}
	return nil
}
