package scnp

import (
	"encoding/binary"
	"time"
)

// DefaultDryRunValue is the meter level reported in dry-run mode unless
// configured otherwise.
const DefaultDryRunValue = uint32(0x00001000)

// dryRunHandle never touches the bus. Writes succeed, meter reads return
// a fixed level.
type dryRunHandle struct {
	inner Handle
	level uint32
}

func (h *dryRunHandle) ControlTransfer(requestType, request byte, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	if requestType == VendorRequestInput && len(data) >= 4 {
		for i := range data {
			data[i] = 0
		}
		binary.LittleEndian.PutUint32(data[0:], h.level)
	}
	return len(data), nil
}

func (h *dryRunHandle) Close() error {
	if h.inner == nil {
		return nil
	}
	return h.inner.Close()
}
