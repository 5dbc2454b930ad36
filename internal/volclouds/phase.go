package volclouds

import "math"

// hg is the Henyey-Greenstein phase function for cosine a and asymmetry g.
func hg(a, g float64) float64 {
	g = math.Max(-maxAsymmetry, math.Min(maxAsymmetry, g))
	g2 := g * g
	return (1 - g2) / (4 * math.Pi * math.Pow(1+g2-2*g*a, 1.5))
}

// phase blends a forward and a backward lobe 50/50 and lifts the result by
// the base brightness.
func phase(a float64, l LightingParameters) float64 {
	const blend = 0.5
	hgBlend := hg(a, l.ForwardScattering)*(1-blend) + hg(a, -l.BackScattering)*blend
	return l.BaseBrightness + hgBlend*l.PhaseFactor
}

// beer is Beer-Lambert transmittance for optical depth d.
func beer(d float64) float64 { return math.Exp(-d) }
