// internal/config/config.go
package config

import "github.com/tamzrod/adf435x/internal/pll"

type Config struct {
	Device    DeviceConfig       `yaml:"device"`
	Synth     SynthConfig        `yaml:"synth"`
	Dividers  DividersConfig     `yaml:"dividers"`
	Registers pll.RegisterConfig `yaml:"registers"`
	Overrides OverridesConfig    `yaml:"overrides"`
	Transport TransportConfig    `yaml:"transport"`
	Sweep     SweepConfig        `yaml:"sweep"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Variant pll.DeviceVariant `yaml:"variant"`
}

// ---- SYNTH ----

// SynthConfig drives the divider solver. FreqMHz = 0 disables the solver
// and the raw Dividers block is programmed instead.
type SynthConfig struct {
	RefFreqMHz             float64 `yaml:"ref_freq_mhz"`
	FreqMHz                float64 `yaml:"freq_mhz"`
	BandSelectClockDivider uint8   `yaml:"band_select_clock_divider"` // 0 = derive
	GCD                    bool    `yaml:"gcd"`
}

// ---- RAW DIVIDERS ----

type DividersConfig struct {
	INT                    uint32 `yaml:"int"`
	FRAC                   uint32 `yaml:"frac"`
	MOD                    uint32 `yaml:"mod"`
	OutputDivider          uint32 `yaml:"output_divider"`
	BandSelectClockDivider uint32 `yaml:"band_select_clock_divider"`
}

// ---- RAW WORD OVERRIDES ----

// OverridesConfig replaces computed words verbatim. Values are parsed with
// base prefix detection ("0x..", "0b..", "0o.." or decimal); empty = keep.
type OverridesConfig struct {
	R0 string `yaml:"r0"`
	R1 string `yaml:"r1"`
	R2 string `yaml:"r2"`
	R3 string `yaml:"r3"`
	R4 string `yaml:"r4"`
	R5 string `yaml:"r5"`
}

// ---- TRANSPORT ----

type TransportConfig struct {
	Interface string `yaml:"interface"` // usb | spi | serial | modbus | ingest
	Order     string `yaml:"order"`     // descending | ascending

	// Delta resends only words that changed since the last successful
	// write. R0 is always sent.
	Delta bool `yaml:"delta"`

	USB    USBConfig    `yaml:"usb"`
	SPI    SPIConfig    `yaml:"spi"`
	Serial SerialConfig `yaml:"serial"`
	Modbus ModbusConfig `yaml:"modbus"`
	Ingest IngestConfig `yaml:"ingest"`
}

type USBConfig struct {
	VendorID  uint16 `yaml:"vendor_id"`
	ProductID uint16 `yaml:"product_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type SPIConfig struct {
	Port    string `yaml:"port"` // "" = first registered bus
	SpeedHz int64  `yaml:"speed_hz"`
}

type SerialConfig struct {
	Port      string `yaml:"port"`
	BaudRate  uint   `yaml:"baud_rate"`
	Ack       bool   `yaml:"ack"` // wait for a status frame per word
	TimeoutMs int    `yaml:"timeout_ms"`
}

type ModbusConfig struct {
	// Endpoint is host:port for TCP; Port selects RTU when set.
	Endpoint  string `yaml:"endpoint"`
	Port      string `yaml:"port"`
	BaudRate  int    `yaml:"baud_rate"`
	UnitID    uint8  `yaml:"unit_id"`
	Address   uint16 `yaml:"address"` // base holding register
	TimeoutMs int    `yaml:"timeout_ms"`
}

type IngestConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- SWEEP ----

type SweepConfig struct {
	StartMHz   float64 `yaml:"start_mhz"`
	StopMHz    float64 `yaml:"stop_mhz"`
	StepMHz    float64 `yaml:"step_mhz"`
	IntervalMs int     `yaml:"interval_ms"`
	Repeat     bool    `yaml:"repeat"`
}
