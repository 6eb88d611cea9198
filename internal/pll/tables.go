// internal/pll/tables.go
package pll

import (
	"sort"
	"strconv"
	"strings"
)

// Lookup tables from physical values to register codes.
// Keys are compared exactly: callers pass the table value, not an approximation.

// chargePumpCurrent maps charge pump current (mA, 5.1 kΩ RSET) to R2 [12:9].
// 4.49 is kept next to the datasheet's 4.69 so older profiles keep working.
var chargePumpCurrent = map[float64]uint32{
	0.31: 0,
	0.63: 1,
	0.94: 2,
	1.25: 3,
	1.56: 4,
	1.88: 5,
	2.19: 6,
	2.50: 7,
	2.81: 8,
	3.13: 9,
	3.44: 10,
	3.75: 11,
	4.06: 12,
	4.38: 13,
	4.49: 14,
	4.69: 14,
	5.00: 15,
}

// antibacklashPulseWidth maps the ABP width (ns) to R3 bit 22.
// 10 ns is the historical default and encodes like 6 ns. 3 ns is the
// datasheet setting for Int-N operation.
var antibacklashPulseWidth = map[float64]uint32{
	10: 0,
	6:  0,
	3:  1,
}

// outputPower maps RF and aux output power (dBm) to their 2-bit codes in R4.
var outputPower = map[float64]uint32{
	-4: 0,
	-1: 1,
	+2: 2,
	+5: 3,
}

// lockDetectPrecisionDefault is the LDP (ns) that leaves R2 bit 7 clear.
const lockDetectPrecisionDefault = 10.0

func lookup(field string, table map[float64]uint32, v float64) (uint32, error) {
	code, ok := table[v]
	if !ok {
		return 0, &FieldError{Field: field, Constraint: "one of " + tableKeys(table)}
	}
	return code, nil
}

func tableKeys(table map[float64]uint32) string {
	keys := make([]float64, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strconv.FormatFloat(k, 'g', -1, 64)
	}
	return strings.Join(out, ", ")
}
