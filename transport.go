package scnp

import (
	"fmt"
	"strings"
	"time"
)

// DeviceDescriptor holds the parts of the USB device descriptor the
// session needs for matching and reporting.
type DeviceDescriptor struct {
	Bus       int
	Address   int
	VendorID  uint16
	ProductID uint16
	Firmware  uint16 // bcdDevice

	// string descriptors, empty when the device could not be opened
	Manufacturer string
	Product      string
}

// FirmwareString renders bcdDevice as major.minor.
func (d DeviceDescriptor) FirmwareString() string {
	return fmt.Sprintf("%d.%02d", d.Firmware>>8, d.Firmware&0xff)
}

// Listing renders one line of the device list. name stands in when the
// device reported no strings.
func (d DeviceDescriptor) Listing(name string) string {
	label := strings.TrimSpace(d.Manufacturer + " " + d.Product)
	if label == "" {
		label = name
	}
	return fmt.Sprintf("Bus %03d Device %03d: ID %04x:%04x %s (firmware %s)",
		d.Bus, d.Address, d.VendorID, d.ProductID, label, d.FirmwareString())
}

// Bus enumerates attached USB devices. Closing the bus releases every
// DeviceRef it returned.
type Bus interface {
	Devices() ([]DeviceRef, error)
	Close() error
}

// DeviceRef is an enumerated but not yet opened device.
type DeviceRef interface {
	Descriptor() DeviceDescriptor
	Open() (Handle, error)
}

// Handle is an opened device.
type Handle interface {
	ControlTransfer(requestType, request byte, value, index uint16, data []byte, timeout time.Duration) (int, error)
	Close() error
}
