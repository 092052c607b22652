package scnp

import (
	"errors"
	"time"
)

type transfer struct {
	requestType byte
	request     byte
	value       uint16
	index       uint16
	data        []byte
	timeout     time.Duration
}

type fakeHandle struct {
	transfers []transfer
	response  []byte
	n         int // overrides the reported length when > 0
	err       error
	closed    bool
}

func (h *fakeHandle) ControlTransfer(requestType, request byte, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	h.transfers = append(h.transfers, transfer{requestType, request, value, index, append([]byte(nil), data...), timeout})
	if h.err != nil {
		return 0, h.err
	}
	if requestType == VendorRequestInput {
		copy(data, h.response)
	}
	if h.n > 0 {
		return h.n, nil
	}
	return len(data), nil
}

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}

type fakeRef struct {
	desc    DeviceDescriptor
	handle  *fakeHandle
	openErr error
	opened  bool
}

func (r *fakeRef) Descriptor() DeviceDescriptor { return r.desc }

func (r *fakeRef) Open() (Handle, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	r.opened = true
	return r.handle, nil
}

type fakeBus struct {
	refs   []DeviceRef
	err    error
	closed bool
}

func (b *fakeBus) Devices() ([]DeviceRef, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.refs, nil
}

func (b *fakeBus) Close() error {
	b.closed = true
	return nil
}

var errBroken = errors.New("pipe error")

func newRef(productID uint16) *fakeRef {
	return &fakeRef{
		desc: DeviceDescriptor{
			Bus:       1,
			Address:   4,
			VendorID:  IDVendorSoundcraft,
			ProductID: productID,
			Firmware:  0x0102,
		},
		handle: &fakeHandle{},
	}
}
