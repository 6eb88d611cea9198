// internal/writer/usb/client.go
package usb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/gousb"
)

const (
	// vendor request, host to device
	requestType uint8 = 0x40
	requestSet  uint8 = 0xDD

	configNum = 1
)

// ErrDeviceNotFound is returned when no adapter matches the VID/PID.
var ErrDeviceNotFound = errors.New("writer usb: device not found")

// controller is the single gousb call the client needs.
type controller interface {
	Control(rType, request uint8, val, idx uint16, data []byte) (int, error)
}

// EndpointClient drives an FX2 or STM32 adapter over vendor control
// transfers, one 32-bit word per request.
type EndpointClient struct {
	mu      sync.Mutex
	dev     controller
	closers []func() error
}

type Config struct {
	VendorID  uint16
	ProductID uint16
	Timeout   time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(cfg.VendorID), gousb.ID(cfg.ProductID))
	if err != nil {
		_ = ctx.Close()
		return nil, fmt.Errorf("writer usb: open %04x:%04x: %w", cfg.VendorID, cfg.ProductID, err)
	}
	if dev == nil {
		_ = ctx.Close()
		return nil, ErrDeviceNotFound
	}

	if cfg.Timeout > 0 {
		dev.ControlTimeout = cfg.Timeout
	}
	if err := dev.SetAutoDetach(true); err != nil {
		_ = dev.Close()
		_ = ctx.Close()
		return nil, fmt.Errorf("writer usb: auto detach: %w", err)
	}

	// select configuration 1 before the first request
	usbCfg, err := dev.Config(configNum)
	if err != nil {
		_ = dev.Close()
		_ = ctx.Close()
		return nil, fmt.Errorf("writer usb: set configuration %d: %w", configNum, err)
	}

	return &EndpointClient{
		dev:     dev,
		closers: []func() error{usbCfg.Close, dev.Close, ctx.Close},
	}, nil
}

// newWithController is used by tests.
func newWithController(dev controller) *EndpointClient {
	return &EndpointClient{dev: dev}
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var last error
	for _, fn := range c.closers {
		if err := fn(); err != nil {
			last = err
		}
	}
	c.closers = nil
	return last
}

// SetRegs sends each word as a 4-byte little-endian payload.
func (c *EndpointClient) SetRegs(words []uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := make([]byte, 4)
	for _, w := range words {
		binary.LittleEndian.PutUint32(buf, w)

		n, err := c.dev.Control(requestType, requestSet, 0, 0, buf)
		if err != nil {
			return fmt.Errorf("writer usb: r%d: %w", w&0x7, err)
		}
		if n != len(buf) {
			return fmt.Errorf("writer usb: r%d: short transfer %d/%d", w&0x7, n, len(buf))
		}
	}
	return nil
}
