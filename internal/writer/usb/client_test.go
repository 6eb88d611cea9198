// internal/writer/usb/client_test.go
package usb

import (
	"bytes"
	"errors"
	"testing"
)

// ---- fake device ----

type controlCall struct {
	rType, request uint8
	val, idx       uint16
	data           []byte
}

type fakeController struct {
	calls  []controlCall
	failAt int // 1-based call index, 0 = never
	short  bool
}

func (f *fakeController) Control(rType, request uint8, val, idx uint16, data []byte) (int, error) {
	f.calls = append(f.calls, controlCall{rType, request, val, idx, append([]byte(nil), data...)})
	if f.failAt == len(f.calls) {
		return 0, errors.New("stall")
	}
	if f.short {
		return len(data) - 1, nil
	}
	return len(data), nil
}

// ---- tests ----

func TestSetRegs_ControlTransferLayout(t *testing.T) {
	fake := &fakeController{}
	c := newWithController(fake)

	if err := c.SetRegs([]uint32{0x00580005, 0x00320000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.calls) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(fake.calls))
	}

	first := fake.calls[0]
	if first.rType != 0x40 || first.request != 0xDD || first.val != 0 || first.idx != 0 {
		t.Fatalf("unexpected setup packet: %+v", first)
	}
	if !bytes.Equal(first.data, []byte{0x05, 0x00, 0x58, 0x00}) {
		t.Fatalf("payload not little-endian: % x", first.data)
	}
	if !bytes.Equal(fake.calls[1].data, []byte{0x00, 0x00, 0x32, 0x00}) {
		t.Fatalf("second payload: % x", fake.calls[1].data)
	}
}

func TestSetRegs_StopsAtFirstFailure(t *testing.T) {
	fake := &fakeController{failAt: 2}
	c := newWithController(fake)

	err := c.SetRegs([]uint32{0x5, 0x4, 0x3})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected transfers to stop after failure, got %d", len(fake.calls))
	}
}

func TestSetRegs_ShortTransfer(t *testing.T) {
	c := newWithController(&fakeController{short: true})
	if err := c.SetRegs([]uint32{0x2}); err == nil {
		t.Fatalf("expected short transfer error")
	}
}

func TestClose_WithoutDevice(t *testing.T) {
	c := newWithController(&fakeController{})
	if err := c.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
