// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/adf435x/internal/config"
	wingest "github.com/tamzrod/adf435x/internal/writer/ingest"
	wmodbus "github.com/tamzrod/adf435x/internal/writer/modbus"
	wserial "github.com/tamzrod/adf435x/internal/writer/serial"
	wspi "github.com/tamzrod/adf435x/internal/writer/spi"
	wusb "github.com/tamzrod/adf435x/internal/writer/usb"
)

// BuildPlan converts a profile into a Writer Plan.
// Assumes config has already passed validation and normalization.
func BuildPlan(c *cfg.Config) (Plan, error) {
	if c == nil {
		return Plan{}, errors.New("writer: config required")
	}

	iface, ok := cfg.CanonicalInterface(c.Transport.Interface)
	if !ok {
		return Plan{}, fmt.Errorf("writer: unknown interface %q", c.Transport.Interface)
	}

	order, err := ParseOrder(c.Transport.Order)
	if err != nil {
		return Plan{}, err
	}

	overrides, err := c.OverrideWords()
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Interface: iface,
		Order:     order,
		Overrides: overrides,
		Delta:     c.Transport.Delta,
	}, nil
}

// BuildEndpointClient opens the transport named by t.Interface.
// The returned close func is safe to call once.
func BuildEndpointClient(t cfg.TransportConfig) (EndpointClient, func() error, error) {
	iface, ok := cfg.CanonicalInterface(t.Interface)
	if !ok {
		return nil, nil, fmt.Errorf("writer: unknown interface %q", t.Interface)
	}

	var c EndpointClient

	switch iface {
	case "usb":
		uc, err := wusb.NewEndpointClient(wusb.Config{
			VendorID:  t.USB.VendorID,
			ProductID: t.USB.ProductID,
			Timeout:   ms(t.USB.TimeoutMs),
		})
		if err != nil {
			return nil, nil, err
		}
		c = uc

	case "spi":
		sc, err := wspi.NewEndpointClient(wspi.Config{
			Port:    t.SPI.Port,
			SpeedHz: t.SPI.SpeedHz,
		})
		if err != nil {
			return nil, nil, err
		}
		c = sc

	case "serial":
		sc, err := wserial.NewEndpointClient(wserial.Config{
			Port:     t.Serial.Port,
			BaudRate: t.Serial.BaudRate,
			Ack:      t.Serial.Ack,
			Timeout:  ms(t.Serial.TimeoutMs),
		})
		if err != nil {
			return nil, nil, err
		}
		c = sc

	case "modbus":
		mc, err := wmodbus.NewEndpointClient(wmodbus.Config{
			Endpoint: t.Modbus.Endpoint,
			Port:     t.Modbus.Port,
			BaudRate: t.Modbus.BaudRate,
			UnitID:   t.Modbus.UnitID,
			Address:  t.Modbus.Address,
			Timeout:  ms(t.Modbus.TimeoutMs),
		})
		if err != nil {
			return nil, nil, err
		}
		c = mc

	case "ingest":
		ic, err := wingest.NewEndpointClient(wingest.Config{
			Endpoint: t.Ingest.Endpoint,
			UnitID:   t.Ingest.UnitID,
			Timeout:  ms(t.Ingest.TimeoutMs),
		})
		if err != nil {
			return nil, nil, err
		}
		c = ic

	default:
		return nil, nil, fmt.Errorf("writer: unsupported interface %q", iface)
	}

	return c, c.Close, nil
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
