package machine

// SpeedOfLight in vacuum, m/s.
const SpeedOfLight = 299792458.0

// Particle is a beam species. Mass is the rest mass in eV/c², Charge the
// charge in units of the elementary charge.
type Particle struct {
	Mass   float64
	Charge float64
}

// Proton returns the proton species.
func Proton() Particle {
	return Particle{Mass: 938.27208816e6, Charge: 1}
}

// Electron returns the electron species.
func Electron() Particle {
	return Particle{Mass: 0.51099895e6, Charge: -1}
}
