package viz

import "github.com/guptarohit/asciigraph"

// WellPlot renders a potential well in eV over its time window.
func WellPlot(well []float64, width, height int) string {
	if len(well) == 0 {
		return ""
	}
	return asciigraph.Plot(well, asciigraph.Height(height), asciigraph.Width(width), asciigraph.Caption("potential well [eV]"))
}

// SeparatrixPlot renders both separatrix branches in MeV. sep holds the
// positive branch in eV; NaN samples outside the bucket render as gaps.
func SeparatrixPlot(sep []float64, width, height int) string {
	if len(sep) == 0 {
		return ""
	}
	upper := make([]float64, len(sep))
	lower := make([]float64, len(sep))
	for i, v := range sep {
		upper[i] = v / 1e6
		lower[i] = -v / 1e6
	}
	return asciigraph.PlotMany([][]float64{upper, lower}, asciigraph.Height(height), asciigraph.Width(width), asciigraph.Caption("separatrix [MeV]"))
}

// DistributionPlot renders a synchrotron frequency table in Hz, ordered
// outward from the synchronous point.
func DistributionPlot(freq []float64, width, height int) string {
	if len(freq) == 0 {
		return ""
	}
	return asciigraph.Plot(freq, asciigraph.Height(height), asciigraph.Width(width), asciigraph.Caption("f_s [Hz]"))
}

// SpectrumPlot renders an oscillation amplitude spectrum over its bins.
func SpectrumPlot(amplitude []float64, width, height int) string {
	if len(amplitude) == 0 {
		return ""
	}
	return asciigraph.Plot(amplitude, asciigraph.Height(height), asciigraph.Width(width), asciigraph.Caption("amplitude spectrum"))
}
