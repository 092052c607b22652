package scnp

import (
	"fmt"
	"io"
)

type tableSpec struct {
	family         Family
	from, to, step int
}

var valueTables = []tableSpec{
	{RangeFamily, 0, 90, 10},
	{ThresholdFamily, -60, 0, 10},
	{MeterFamily, -100, 0, 10},
}

// WriteTables prints the dB to register tables of all conversion families.
func WriteTables(w io.Writer) error {
	for _, t := range valueTables {
		fmt.Fprintf(w, "\n### value table for %s ###\n\n", t.family.Name)
		fmt.Fprintf(w, "    %-6s  %-10s  %-10s\n", "__dB__", "_uint32_t_", "_uint32_t_")
		for dB := t.from; dB <= t.to; dB += t.step {
			v, err := t.family.ToRaw(float64(dB))
			if err != nil {
				return err
			}
			if _, err = fmt.Fprintf(w, "    %4ddB  0x%08x  %10d\n", dB, v, v); err != nil {
				return err
			}
		}
	}
	return nil
}
