package scnp

import (
	"fmt"
	"math"
)

// Reference ceilings of the device registers.
const (
	RefRange     = uint32(0x1FFFFFFF)
	RefThreshold = uint32(0x007FFFFF)
	RefMeter     = uint32(0x00FFFFFF)
)

// Family describes how one device quantity maps between dB and its register.
type Family struct {
	Name  string
	Ref   uint32  // register value at 0 dB
	MinDB float64 // valid dB interval, inclusive
	MaxDB float64

	// inverted families store dB_to_uint(ref, -dB): more dB is a smaller register.
	inverted bool
	// zeroFloor maps MinDB itself to register 0.
	zeroFloor bool
}

// Conversion families known to the firmware.
var (
	// The duck range is stored with a flipped sign: 90 dB of attenuation is
	// the smallest register value. This is how the device behaves.
	RangeFamily     = Family{Name: "ducker range", Ref: RefRange, MinDB: 0, MaxDB: 90, inverted: true}
	ThresholdFamily = Family{Name: "ducker threshold", Ref: RefThreshold, MinDB: -60, MaxDB: 0, zeroFloor: true}
	MeterFamily     = Family{Name: "ducker meter", Ref: RefMeter, MinDB: -100, MaxDB: 0}
)

// DBToUint converts dB into a register value relative to ref, rounding to the
// nearest integer. Results below zero or above ref are rejected.
func DBToUint(ref uint32, dB float64) (val uint32, err error) {
	f := math.Round(float64(ref) * math.Pow(10, dB/20))
	if math.IsNaN(f) || f < 0 || f > float64(ref) {
		err = fmt.Errorf("DBToUint(0x%08x, %g): %w", ref, dB, ErrParameterOutOfRange)
		return
	}
	val = uint32(f)
	return
}

// UintToDB converts a register value into dB relative to ref.
// The result is not clamped; zero yields -Inf.
func UintToDB(ref, val uint32) float64 {
	return 20 * math.Log10(float64(val)/float64(ref))
}

// ToRaw converts dB into the family's register value.
func (f Family) ToRaw(dB float64) (val uint32, err error) {
	if math.IsNaN(dB) || dB < f.MinDB || dB > f.MaxDB {
		err = fmt.Errorf("%s %gdB outside %g..%gdB: %w", f.Name, dB, f.MinDB, f.MaxDB, ErrParameterOutOfRange)
		return
	}
	if f.zeroFloor && dB == f.MinDB {
		return 0, nil
	}
	if f.inverted {
		dB = -dB
	}
	return DBToUint(f.Ref, dB)
}

// ToDB converts a register value of the family into dB.
func (f Family) ToDB(val uint32) float64 {
	dB := UintToDB(f.Ref, val)
	if f.inverted {
		dB = -dB
	}
	return dB
}
