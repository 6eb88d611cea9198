// internal/writer/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/goburrow/serial"
)

// registersPerWord: each 32-bit word occupies two holding registers, high
// half first.
const registersPerWord = 2

// registerWriter is the part of modbus.Client the client uses.
type registerWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// EndpointClient writes register words to a Modbus gateway that forwards
// them to the synthesizer. Word for register n lands at Address + 2n.
type EndpointClient struct {
	mu      sync.Mutex
	closer  func() error
	client  registerWriter
	address uint16
}

type Config struct {
	// Endpoint selects TCP, Port selects RTU.
	Endpoint string
	Port     string
	BaudRate int

	UnitID  uint8
	Address uint16
	Timeout time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	switch {
	case cfg.Endpoint != "":
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		h.SlaveId = cfg.UnitID

		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("writer modbus: connect %s: %w", cfg.Endpoint, err)
		}
		return &EndpointClient{
			closer:  h.Close,
			client:  modbus.NewClient(h),
			address: cfg.Address,
		}, nil

	case cfg.Port != "":
		h := modbus.NewRTUClientHandler(cfg.Port)
		h.Config = serial.Config{
			Address:  cfg.Port,
			BaudRate: cfg.BaudRate,
			DataBits: 8,
			StopBits: 1,
			Parity:   "N",
			Timeout:  cfg.Timeout,
		}
		h.SlaveId = cfg.UnitID

		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("writer modbus: open %s: %w", cfg.Port, err)
		}
		return &EndpointClient{
			closer:  h.Close,
			client:  modbus.NewClient(h),
			address: cfg.Address,
		}, nil
	}

	return nil, errors.New("writer modbus: endpoint or port required")
}

// newWithClient is used by tests.
func newWithClient(c registerWriter, address uint16) *EndpointClient {
	return &EndpointClient{client: c, address: address}
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closer == nil {
		return nil
	}
	err := c.closer()
	c.closer = nil
	return err
}

// SetRegs issues one FC16 request per word, in order.
func (c *EndpointClient) SetRegs(words []uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, w := range words {
		reg := w & 0x7
		addr := c.address + uint16(reg)*registersPerWord

		payload := packRegisters([]uint16{uint16(w >> 16), uint16(w)})
		if _, err := c.client.WriteMultipleRegisters(addr, registersPerWord, payload); err != nil {
			return fmt.Errorf("writer modbus: r%d addr=%d: %w", reg, addr, err)
		}
	}
	return nil
}

// Modbus register memory order (BIG-ENDIAN)
func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
