package phasespace

import (
	"math"

	"github.com/san-kum/synchro/internal/machine"
)

// VoltageMode selects how the per-turn total voltage is combined across
// stations.
type VoltageMode int

const (
	// VoltageFundamental sums the fundamental-system phasors of all
	// stations in quadrature.
	VoltageFundamental VoltageMode = iota

	// VoltageAll would combine every harmonic of every station. Summing
	// across harmonics has no single-phasor representation, so this mode is
	// a recorded capability gap: it reports a warning diagnostic and
	// returns a zero-filled sentinel of the right length.
	VoltageAll
)

// TotalVoltage combines the RF voltage programs of several stations into a
// single per-turn amplitude. All stations must sit on rings with the same
// turn count. Unknown modes return [ErrUnknownVoltageMode].
func TotalVoltage(stations []*machine.RFStation, mode VoltageMode, diag *Diag) ([]float64, error) {
	if len(stations) == 0 {
		return nil, ErrNoStations
	}
	n := len(stations[0].Voltage[0])
	for _, st := range stations[1:] {
		if len(st.Voltage[0]) != n {
			return nil, ErrLengthMismatch
		}
	}

	switch mode {
	case VoltageFundamental:
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			var vcos, vsin float64
			for _, st := range stations {
				v := st.Voltage[0][i]
				phi := st.PhiRF[0][i]
				vcos += v * math.Cos(phi)
				vsin += v * math.Sin(phi)
			}
			out[i] = math.Hypot(vcos, vsin)
		}
		return out, nil

	case VoltageAll:
		diag.Warningf("total_voltage", "combining all harmonics is not implemented; returning zero sentinel for %d turns", n)
		return make([]float64, n), nil
	}
	return nil, ErrUnknownVoltageMode
}
