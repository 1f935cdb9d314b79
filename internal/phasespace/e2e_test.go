package phasespace_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/synchro/internal/beam"
	"github.com/san-kum/synchro/internal/machine"
	"github.com/san-kum/synchro/internal/numeric"
	"github.com/san-kum/synchro/internal/phasespace"
	"github.com/san-kum/synchro/internal/tracking"
)

const (
	spsCircumference = 6911.56
	spsAlpha         = 1.0 / (18.0 * 18.0)
	spsMomentum      = 25.92e9
	spsHarmonic      = 4620.0
	spsVoltage       = 0.9e6
)

func spsMachine(nTurns int) (*machine.Ring, *machine.RFStation) {
	ring, err := machine.NewRing(spsCircumference, spsAlpha, machine.ConstProgram(spsMomentum, nTurns), machine.Proton())
	Expect(err).NotTo(HaveOccurred())
	rf, err := machine.NewRFStation(ring,
		[][]float64{machine.ConstProgram(spsHarmonic, nTurns)},
		[][]float64{machine.ConstProgram(spsVoltage, nTurns)},
		[][]float64{machine.ConstProgram(0, nTurns)})
	Expect(err).NotTo(HaveOccurred())
	return ring, rf
}

func linearSynchrotronFrequency(rf *machine.RFStation) float64 {
	ring := rf.Ring
	omega0 := 2 * math.Pi / ring.TRev[0]
	num := rf.Harmonic[0][0] * omega0 * omega0 * ring.Particle.Charge * rf.Voltage[0][0] *
		math.Abs(ring.Eta0[0]*math.Cos(rf.PhiS[0]))
	den := 2 * math.Pi * ring.Beta[0] * ring.Beta[0] * ring.Energy[0]
	return math.Sqrt(num/den) / (2 * math.Pi)
}

var _ = Describe("Stationary single-harmonic bucket", func() {
	var (
		ring *machine.Ring
		rf   *machine.RFStation
		trf  float64
	)

	BeforeEach(func() {
		ring, rf = spsMachine(1)
		trf = 2 * math.Pi / rf.OmegaRF[0][0]
	})

	It("holds the separatrix on the Hamiltonian contour of the unstable fixed point", func() {
		dt := numeric.Linspace(0.1*trf, 0.9*trf, 33)
		sep, err := phasespace.Separatrix(rf, dt)
		Expect(err).NotTo(HaveOccurred())

		hSep, err := phasespace.Hamiltonian(rf, []float64{0}, []float64{0}, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		h, err := phasespace.Hamiltonian(rf, dt, sep, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		for i := range h {
			Expect(h[i]).To(BeNumerically("~", hSep[0], 1e-6*math.Abs(hSep[0])))
		}
	})

	It("confines a particle launched inside the bucket", func() {
		nTurns := 3000
		ring, rf = spsMachine(nTurns)
		b, err := beam.New(ring, 1, 0)
		Expect(err).NotTo(HaveOccurred())

		dt0 := 0.3 * trf
		sep, err := phasespace.Separatrix(rf, []float64{dt0})
		Expect(err).NotTo(HaveOccurred())
		b.Dt[0] = dt0
		b.DE[0] = 0.8 * sep[0]

		fr := tracking.New(ring, rf, b)
		for i := 0; i < nTurns; i++ {
			Expect(fr.Track()).To(Succeed())
			Expect(math.Abs(b.Dt[0] - trf/2)).To(BeNumerically("<", trf))
		}
		in, err := phasespace.IsInSeparatrix(rf, b.Dt, b.DE, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(in[0]).To(BeTrue())
	})

	It("loses a particle launched outside the bucket", func() {
		nTurns := 3000
		ring, rf = spsMachine(nTurns)
		b, err := beam.New(ring, 1, 0)
		Expect(err).NotTo(HaveOccurred())

		dt0 := 0.5 * trf
		sep, err := phasespace.Separatrix(rf, []float64{dt0})
		Expect(err).NotTo(HaveOccurred())
		b.Dt[0] = dt0
		b.DE[0] = 1.2 * sep[0]

		fr := tracking.New(ring, rf, b)
		for i := 0; i < nTurns; i++ {
			Expect(fr.Track()).To(Succeed())
		}
		Expect(math.Abs(b.Dt[0] - trf/2)).To(BeNumerically(">", trf))
	})

	It("agrees between the action-integral distribution and the tracked spectrum", func() {
		nTurns := 2000
		ring, rf = spsMachine(nTurns)
		b, err := beam.New(ring, 5, 0)
		Expect(err).NotTo(HaveOccurred())
		fr := tracking.New(ring, rf, b)

		thetaC := math.Pi / spsHarmonic
		ft, err := phasespace.NewFrequencyTracker(fr, b, nTurns, []float64{0.9 * thetaC, 1.1 * thetaC}, nil)
		Expect(err).NotTo(HaveOccurred())

		// the distribution sees the probes at their launch positions
		probe, err := beam.New(ring, 5, 0)
		Expect(err).NotTo(HaveOccurred())
		copy(probe.Dt, b.Dt)

		opts := phasespace.DefaultFsOptions()
		opts.NPoints = 600
		dist, err := phasespace.FrequencyDistribution(rf, probe, fr, opts, nil)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < nTurns; i++ {
			Expect(ft.Track()).To(Succeed())
		}
		res, err := ft.FrequencyCalculation(131072, 0, 0)
		Expect(err).NotTo(HaveOccurred())

		for _, p := range []int{1, 3} {
			Expect(res.FrequencyTheta[p]).To(BeNumerically("~", dist.ParticleFrequency[p], 0.02*dist.ParticleFrequency[p]))
		}

		fs0 := linearSynchrotronFrequency(rf)
		Expect(dist.FreqRight[1]).To(BeNumerically("~", fs0, 0.01*fs0))
	})

	It("keeps the diagnostics silent for a clean bucket", func() {
		var diag phasespace.Diag
		fr := tracking.New(ring, rf, nil)

		opts := phasespace.DefaultFsOptions()
		opts.NPoints = 400
		_, err := phasespace.FrequencyDistribution(rf, nil, fr, opts, &diag)
		Expect(err).NotTo(HaveOccurred())
		Expect(diag.Entries()).To(BeEmpty())
	})
})

var _ = Describe("Double-harmonic bucket", func() {
	var (
		ring *machine.Ring
		rf   *machine.RFStation
	)

	BeforeEach(func() {
		var err error
		ring, err = machine.NewRing(spsCircumference, spsAlpha, machine.ConstProgram(spsMomentum, 1), machine.Proton())
		Expect(err).NotTo(HaveOccurred())
		// bunch-shortening pair: half voltage on the doubled harmonic
		rf, err = machine.NewRFStation(ring,
			[][]float64{machine.ConstProgram(spsHarmonic, 1), machine.ConstProgram(2*spsHarmonic, 1)},
			[][]float64{machine.ConstProgram(spsVoltage, 1), machine.ConstProgram(spsVoltage/2, 1)},
			[][]float64{machine.ConstProgram(0, 1), machine.ConstProgram(math.Pi, 1)})
		Expect(err).NotTo(HaveOccurred())
	})

	It("suppresses the small-amplitude frequency in the flattened bottom", func() {
		fr := tracking.New(ring, rf, nil)
		opts := phasespace.DefaultFsOptions()
		opts.NPoints = 800

		dist, err := phasespace.FrequencyDistribution(rf, nil, fr, opts, nil)
		Expect(err).NotTo(HaveOccurred())

		fs0 := linearSynchrotronFrequency(rf)
		Expect(dist.FreqRight[1]).To(BeNumerically("<", 0.5*fs0))

		// in a quartic bottom the frequency rises with amplitude first
		mid := len(dist.FreqRight) / 2
		Expect(dist.FreqRight[mid]).To(BeNumerically(">", dist.FreqRight[1]))
	})

	It("reports the single-harmonic approximation on the Hamiltonian", func() {
		var diag phasespace.Diag
		_, err := phasespace.Hamiltonian(rf, []float64{0}, []float64{0}, nil, &diag)
		Expect(err).NotTo(HaveOccurred())
		Expect(diag.HasWarnings()).To(BeTrue())
	})

	It("builds a separatrix through the numerically located unstable fixed point", func() {
		trf := 2 * math.Pi / rf.OmegaRF[0][0]
		dt := numeric.Linspace(0.02*trf, 0.98*trf, 49)
		sep, err := phasespace.Separatrix(rf, dt)
		Expect(err).NotTo(HaveOccurred())

		finite := 0
		for _, v := range sep {
			if !math.IsNaN(v) {
				finite++
				Expect(v).To(BeNumerically(">=", 0))
			}
		}
		Expect(finite).To(BeNumerically(">", 0))
	})
})
