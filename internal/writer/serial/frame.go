// internal/writer/serial/frame.go
package serial

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/sigurn/crc16"
)

const (
	STX byte = 0x02
	ETX byte = 0x03
	ESC byte = 0x1B

	headerLength   = 5
	checksumLength = 2

	frameVersion uint8 = 0
	frameSetReg  uint8 = 0xDD
)

var errInvalidFrame = errors.New("writer serial: invalid frame")

var crcTable = crc16.MakeTable(crc16.CRC16_ARC)

type frameHeader struct {
	Version uint8
	Type    uint8
	ID      uint8
	Length  uint16
}

type frame struct {
	Type uint8
	ID   uint8
	Data []byte
}

// ---- encode ----

func escape(data []byte) []byte {
	var buf bytes.Buffer
	for _, b := range data {
		switch b {
		case STX, ETX, ESC:
			buf.WriteByte(ESC)
		}
		buf.WriteByte(b)
	}
	return buf.Bytes()
}

func checksum(data []byte) []byte {
	out := make([]byte, checksumLength)
	binary.BigEndian.PutUint16(out, crc16.Checksum(data, crcTable))
	return out
}

// pack builds STX | escape(header | data | crc16) | ETX.
func pack(typ, id uint8, data []byte) []byte {
	hdr := frameHeader{
		Version: frameVersion,
		Type:    typ,
		ID:      id,
		Length:  uint16(len(data)),
	}

	var body bytes.Buffer
	_ = binary.Write(&body, binary.BigEndian, &hdr)
	body.Write(data)
	body.Write(checksum(body.Bytes()))

	var out bytes.Buffer
	out.WriteByte(STX)
	out.Write(escape(body.Bytes()))
	out.WriteByte(ETX)
	return out.Bytes()
}

// wordFrame carries one register word, big-endian, addressed by its
// register number.
func wordFrame(w uint32) []byte {
	data := make([]byte, 4)
	binary.BigEndian.PutUint32(data, w)
	return pack(frameSetReg, uint8(w&0x7), data)
}

// ---- decode ----

// unpack checks the CRC and header of an unescaped frame body.
func unpack(p []byte) (frame, error) {
	if len(p) < headerLength+checksumLength {
		return frame{}, errInvalidFrame
	}

	n := len(p) - checksumLength
	if !bytes.Equal(p[n:], checksum(p[:n])) {
		return frame{}, errors.New("writer serial: checksum mismatch")
	}

	var hdr frameHeader
	if err := binary.Read(bytes.NewReader(p[:headerLength]), binary.BigEndian, &hdr); err != nil {
		return frame{}, errInvalidFrame
	}
	data := p[headerLength:n]
	if len(data) != int(hdr.Length) {
		return frame{}, errInvalidFrame
	}
	return frame{Type: hdr.Type, ID: hdr.ID, Data: data}, nil
}
