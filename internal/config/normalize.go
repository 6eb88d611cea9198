// internal/config/normalize.go
package config

import "strings"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	t := &cfg.Transport

	// ------------------------------------------------------------
	// INTERFACE NAMES
	// ------------------------------------------------------------

	// fx2 and stm32 adapters speak the same vendor request
	if c, ok := CanonicalInterface(t.Interface); ok {
		t.Interface = c
	}

	t.Order = strings.ToLower(strings.TrimSpace(t.Order))
	if t.Order == "" {
		t.Order = "descending"
	}

	// ------------------------------------------------------------
	// TRANSPORT DEFAULTS
	// ------------------------------------------------------------

	if t.USB.VendorID == 0 && t.USB.ProductID == 0 {
		t.USB.VendorID = DefaultUSBVendorID
		t.USB.ProductID = DefaultUSBProductID
	}
	if t.USB.TimeoutMs == 0 {
		t.USB.TimeoutMs = 1000
	}
	if t.SPI.SpeedHz == 0 {
		t.SPI.SpeedHz = 1_000_000
	}
	if t.Serial.BaudRate == 0 {
		t.Serial.BaudRate = 115200
	}
	if t.Serial.TimeoutMs <= 0 {
		t.Serial.TimeoutMs = 500
	}
	if t.Modbus.BaudRate == 0 {
		t.Modbus.BaudRate = 115200
	}
	if t.Modbus.TimeoutMs <= 0 {
		t.Modbus.TimeoutMs = 1000
	}
	if t.Ingest.TimeoutMs <= 0 {
		t.Ingest.TimeoutMs = 2000
	}
}
