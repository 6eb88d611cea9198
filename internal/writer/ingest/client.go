// internal/writer/ingest/client.go
package ingest

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

const (
	magicHi byte = 0x52 // 'R'
	magicLo byte = 0x49 // 'I'

	versionV2 byte = 0x02

	// areaPLL marks a register-word batch.
	areaPLL byte = 0xDD

	headerLen = 8

	respOK       byte = 0x00
	respRejected byte = 0x01
)

// Raw Ingest v2 client (stateless, 1 batch = 1 packet = 1 connection)
type EndpointClient struct {
	endpoint string
	unitID   uint8
	timeout  time.Duration
}

type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer ingest: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &EndpointClient{
		endpoint: cfg.Endpoint,
		unitID:   cfg.UnitID,
		timeout:  cfg.Timeout,
	}, nil
}

func (c *EndpointClient) Close() error { return nil }

// SetRegs ships all words in one packet. The receiver latches them in
// packet order and answers with a single status byte.
func (c *EndpointClient) SetRegs(words []uint32) error {
	if len(words) == 0 {
		return nil
	}
	if len(words) > 0xFFFF {
		return fmt.Errorf("writer ingest: %d words exceed packet limit", len(words))
	}

	pkt := buildPacketV2(c.unitID, words)

	conn, err := net.DialTimeout("tcp", c.endpoint, c.timeout)
	if err != nil {
		return fmt.Errorf("writer ingest: dial: %w", err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := writeAll(conn, pkt); err != nil {
		return fmt.Errorf("writer ingest: write: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(c.timeout))
	var resp [1]byte
	if _, err := io.ReadFull(conn, resp[:]); err != nil {
		return fmt.Errorf("writer ingest: read status: %w", err)
	}

	switch resp[0] {
	case respOK:
		return nil
	case respRejected:
		return errors.New("writer ingest: rejected")
	default:
		return fmt.Errorf("writer ingest: unknown status 0x%02x", resp[0])
	}
}

//
// ---- Raw Ingest v2 packet builder ----
//
// Layout (8 bytes header):
// 0–1  Magic "RI"
// 2    Version (0x02)
// 3    Area (0xDD)
// 4–5  UnitID
// 6–7  Count (words)
// 8+   Words, 4 bytes each, big-endian
//

func buildPacketV2(unitID uint8, words []uint32) []byte {
	pkt := make([]byte, headerLen, headerLen+4*len(words))

	pkt[0] = magicHi
	pkt[1] = magicLo
	pkt[2] = versionV2
	pkt[3] = areaPLL

	putU16(pkt[4:6], uint16(unitID))
	putU16(pkt[6:8], uint16(len(words)))

	for _, w := range words {
		pkt = append(pkt, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	return pkt
}

//
// ---- helpers ----
//

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func putU16(dst []byte, v uint16) {
	dst[0] = byte(v >> 8)
	dst[1] = byte(v)
}
