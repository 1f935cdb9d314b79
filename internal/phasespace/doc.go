// Package phasespace analyses the longitudinal phase space of a synchrotron
// bucket: RF potential wells, separatrices, Hamiltonian contours and
// synchrotron-frequency distributions.
//
// The entry points are pure functions over coordinate slices:
//
//   - [Hamiltonian] and [IsInSeparatrix] evaluate single-harmonic contours
//   - [Separatrix] traces the bucket boundary, solving for the unstable
//     fixed point when several RF systems overlap
//   - [MinMaxLocation] and [PotentialWellCut] isolate one bucket from a
//     sampled potential well
//   - [FrequencyDistribution] maps Hamiltonian amplitude to synchrotron
//     frequency through action integrals
//   - [FrequencyTracker] measures the same frequencies independently by
//     tracking a probe ensemble and locating spectral peaks
//
// Functions never panic on physically out-of-range coordinates: a point
// outside the bucket yields NaN in that element and the computation keeps
// going. Structural misuse (mismatched lengths, unknown modes, wells with
// no minimum) returns an error. Degenerate-but-recoverable geometry is
// reported through an explicit [Diag] collector while a documented fallback
// is applied.
//
// All calls are synchronous and reentrant; no package-level state exists,
// so independent analyses may run concurrently.
package phasespace
