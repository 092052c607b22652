package scnp

import (
	"fmt"
	"time"

	"github.com/gotmc/libusb"
)

var (
	_ Bus       = (*USBBus)(nil)
	_ DeviceRef = (*usbDeviceRef)(nil)
	_ Handle    = (*usbHandle)(nil)
)

// USBBus is the libusb backed Bus.
type USBBus struct {
	ctx *libusb.Context
}

// OpenUSB creates a libusb context.
func OpenUSB() (*USBBus, error) {
	ctx, err := libusb.NewContext()
	if err != nil {
		return nil, fmt.Errorf("libusb init: %v: %w", err, ErrTransport)
	}
	return &USBBus{ctx: ctx}, nil
}

// Devices lists every attached device. Devices whose descriptor cannot be
// read are skipped.
func (b *USBBus) Devices() (refs []DeviceRef, err error) {
	devices, err := b.ctx.GetDeviceList()
	if err != nil {
		err = fmt.Errorf("libusb get device list: %v: %w", err, ErrTransport)
		return
	}
	for _, dev := range devices {
		desc, derr := dev.GetDeviceDescriptor()
		if derr != nil {
			continue
		}
		ref := &usbDeviceRef{dev: dev}
		ref.desc.VendorID = desc.VendorID
		ref.desc.ProductID = desc.ProductID
		ref.desc.Firmware = uint16(desc.DeviceReleaseNumber)
		if n, e := dev.GetBusNumber(); e == nil {
			ref.desc.Bus = n
		}
		if n, e := dev.GetDeviceAddress(); e == nil {
			ref.desc.Address = n
		}
		if desc.VendorID == IDVendorSoundcraft {
			ref.desc.Manufacturer, ref.desc.Product = readStrings(dev, uint8(desc.ManufacturerIndex), uint8(desc.ProductIndex))
		}
		refs = append(refs, ref)
	}
	return
}

// readStrings briefly opens the device for its manufacturer and product
// strings. A device that cannot be opened keeps empty strings.
func readStrings(dev *libusb.Device, manufacturerIndex, productIndex uint8) (manufacturer, product string) {
	h, err := dev.Open()
	if err != nil {
		return
	}
	defer h.Close()
	manufacturer, _ = h.GetStringDescriptorASCII(manufacturerIndex)
	product, _ = h.GetStringDescriptorASCII(productIndex)
	return
}

// Close releases the context and with it all enumerated devices.
func (b *USBBus) Close() error {
	if b == nil || b.ctx == nil {
		return nil
	}
	err := b.ctx.Close()
	b.ctx = nil
	return err
}

type usbDeviceRef struct {
	dev  *libusb.Device
	desc DeviceDescriptor
}

func (r *usbDeviceRef) Descriptor() DeviceDescriptor { return r.desc }

func (r *usbDeviceRef) Open() (Handle, error) {
	h, err := r.dev.Open()
	if err != nil {
		return nil, fmt.Errorf("libusb open: %v: %w", err, ErrTransport)
	}
	return &usbHandle{handle: h}, nil
}

type usbHandle struct {
	handle *libusb.DeviceHandle
}

// ControlTransfer only knows the vendor request of the Notepad protocol.
// libusb wants its own request types, so each direction passes the constant.
func (h *usbHandle) ControlTransfer(requestType, request byte, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	if request != vendorRequest {
		return 0, fmt.Errorf("usbHandle.ControlTransfer(): request %d: %w", request, ErrTransport)
	}
	ms := int(timeout.Milliseconds())
	switch requestType {
	case VendorRequestOutput:
		return h.handle.ControlTransfer(VendorRequestOutput, vendorRequest, value, index, data, len(data), ms)
	case VendorRequestInput:
		return h.handle.ControlTransfer(VendorRequestInput, vendorRequest, value, index, data, len(data), ms)
	}
	return 0, fmt.Errorf("usbHandle.ControlTransfer(): request type 0x%02x: %w", requestType, ErrTransport)
}

func (h *usbHandle) Close() error {
	if h.handle == nil {
		return nil
	}
	err := h.handle.Close()
	h.handle = nil
	return err
}
