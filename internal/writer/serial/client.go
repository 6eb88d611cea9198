// internal/writer/serial/client.go
package serial

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jacobsa/go-serial/serial"
)

const (
	ackOK byte = 0x00
)

// EndpointClient talks to a UART bridge that shifts each framed word into
// the synthesizer.
type EndpointClient struct {
	mu  sync.Mutex
	rw  io.ReadWriteCloser
	ack bool

	// reads returning io.EOF this many times in a row end an ack wait
	maxIdleReads int
}

type Config struct {
	Port     string
	BaudRate uint
	Ack      bool
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Port == "" {
		return nil, errors.New("writer serial: port required")
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = 115200
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 500 * time.Millisecond
	}

	// InterCharacterTimeout is in ms; with MinimumReadSize 0 an idle read
	// returns io.EOF after it expires.
	const interChar = 100
	rw, err := serial.Open(serial.OpenOptions{
		PortName:              cfg.Port,
		BaudRate:              cfg.BaudRate,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: interChar,
		MinimumReadSize:       0,
	})
	if err != nil {
		return nil, fmt.Errorf("writer serial: open %s: %w", cfg.Port, err)
	}

	idle := int(cfg.Timeout / (interChar * time.Millisecond))
	if idle < 1 {
		idle = 1
	}
	return &EndpointClient{rw: rw, ack: cfg.Ack, maxIdleReads: idle}, nil
}

// newWithPort is used by tests.
func newWithPort(rw io.ReadWriteCloser, ack bool) *EndpointClient {
	return &EndpointClient{rw: rw, ack: ack, maxIdleReads: 3}
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rw.Close()
}

// SetRegs sends one frame per word, waiting for the bridge's status frame
// when acks are enabled.
func (c *EndpointClient) SetRegs(words []uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, w := range words {
		pkt := wordFrame(w)

		n, err := c.rw.Write(pkt)
		if err != nil {
			return fmt.Errorf("writer serial: r%d: write: %w", w&0x7, err)
		}
		if n != len(pkt) {
			return fmt.Errorf("writer serial: r%d: short write %d/%d", w&0x7, n, len(pkt))
		}

		if !c.ack {
			continue
		}
		if err := c.readAck(uint8(w & 0x7)); err != nil {
			return fmt.Errorf("writer serial: r%d: %w", w&0x7, err)
		}
	}
	return nil
}

func (c *EndpointClient) readAck(id uint8) error {
	f, err := c.readFrame()
	if err != nil {
		return err
	}
	if f.Type != frameSetReg || f.ID != id || len(f.Data) != 1 {
		return fmt.Errorf("unexpected reply type=0x%02x id=%d len=%d", f.Type, f.ID, len(f.Data))
	}
	if f.Data[0] != ackOK {
		return fmt.Errorf("rejected with status 0x%02x", f.Data[0])
	}
	return nil
}

func (c *EndpointClient) readFrame() (frame, error) {
	var buf bytes.Buffer
	b := make([]byte, 1)
	idle := 0
	inFrame := false

	next := func() (byte, error) {
		for {
			n, err := c.rw.Read(b)
			switch {
			case n == 1:
				idle = 0
				return b[0], nil
			case err == nil || errors.Is(err, io.EOF):
				idle++
				if idle >= c.maxIdleReads {
					return 0, errors.New("ack timeout")
				}
			default:
				return 0, err
			}
		}
	}

	for {
		x, err := next()
		if err != nil {
			return frame{}, err
		}

		switch {
		case x == STX:
			buf.Reset()
			inFrame = true
		case !inFrame:
			// noise before the frame start
		case x == ETX:
			return unpack(buf.Bytes())
		case x == ESC:
			x, err = next()
			if err != nil {
				return frame{}, err
			}
			buf.WriteByte(x)
		default:
			buf.WriteByte(x)
		}
	}
}
