// Package dsp holds the small stateless and per-instance helpers shared by
// every audio-rate component: one-pole smoothing, DC blocking, and a
// stereo f64 pair used as a poor man's SIMD lane for code that processes
// left/right together (moog ladder, PLL).
package dsp

import "math"

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp linearly interpolates between a and b by t in [0,1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Wrap01 wraps x into [0,1), the convention used by every phase accumulator
// in this module.
func Wrap01(x float64) float64 {
	x -= math.Floor(x)
	if x < 0 {
		x += 1
	}
	return x
}

// WrapPi wraps x into (-pi, pi].
func WrapPi(x float64) float64 {
	for x > math.Pi {
		x -= 2 * math.Pi
	}
	for x <= -math.Pi {
		x += 2 * math.Pi
	}
	return x
}

// ScrubNonFinite replaces NaN/Inf with 0. Used as the final safety net at
// the master output stage (§7 Divergent DSP).
func ScrubNonFinite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// Stereo is a left/right sample pair, processed together by components
// that operate identically on both channels (moog ladder, PLL cross-feedback
// bookkeeping). It stands in for true SIMD: on amd64/arm64 the Go compiler
// autovectorizes the two parallel float64 lanes of PairOp reasonably well,
// which is the "portable SIMD f64x2" line item in the component table.
type Stereo struct {
	L, R float64
}

// PairOp applies f independently to L and R.
func (s Stereo) PairOp(f func(float64) float64) Stereo {
	return Stereo{L: f(s.L), R: f(s.R)}
}

func (s Stereo) Add(o Stereo) Stereo    { return Stereo{s.L + o.L, s.R + o.R} }
func (s Stereo) Scale(g float64) Stereo { return Stereo{s.L * g, s.R * g} }

// OnePole is a one-pole lowpass / smoother: y += (x - y) * coefficient.
// Used for parameter smoothing, the mod-step-sequencer's slew, and the
// reverb's input tone and damping filters.
type OnePole struct {
	y float64
}

// Coefficient returns the per-sample coefficient for a given time constant
// (seconds) and sample rate, using the standard exp(-1/(tau*fs)) form also
// used by the envelope generators.
func Coefficient(timeSeconds, sampleRate float64) float64 {
	if timeSeconds <= 0 {
		return 1
	}
	return 1 - math.Exp(-1/(timeSeconds*sampleRate))
}

// Step advances the filter toward target by coefficient (0,1].
func (p *OnePole) Step(target, coefficient float64) float64 {
	p.y += (target - p.y) * coefficient
	return p.y
}

// Value returns the current output without advancing.
func (p *OnePole) Value() float64 { return p.y }

// Reset snaps the filter to v.
func (p *OnePole) Reset(v float64) { p.y = v }

// DCBlock is a single-pole DC blocker: y[n] = x[n] - x[n-1] + R*y[n-1].
type DCBlock struct {
	x1, y1 float64
	R      float64
}

// NewDCBlock returns a DC blocker with the conventional R=0.995 pole,
// adequate at audio sample rates; callers needing a different corner
// (e.g. oversampled internal rates) should set R directly.
func NewDCBlock() *DCBlock { return &DCBlock{R: 0.995} }

func (d *DCBlock) Process(x float64) float64 {
	y := x - d.x1 + d.R*d.y1
	d.x1 = x
	d.y1 = y
	return y
}

func (d *DCBlock) Reset() {
	d.x1, d.y1 = 0, 0
}

// Slew moves current toward target by at most maxStep per call, used by the
// formant filter's frequency glides and by any parameter that needs a
// linear (rather than exponential) ramp.
type Slew struct {
	current float64
}

func (s *Slew) Value() float64 { return s.current }

func (s *Slew) Reset(v float64) { s.current = v }

func (s *Slew) Step(target, maxStep float64) float64 {
	if maxStep <= 0 {
		s.current = target
		return s.current
	}
	d := target - s.current
	if d > maxStep {
		d = maxStep
	} else if d < -maxStep {
		d = -maxStep
	}
	s.current += d
	return s.current
}

// ParabolicSin approximates sin(x) for x in [-pi, pi] with a parabola plus
// a weighted y*|y| correction term (P = 0.225); its maximum absolute error
// is about 0.0011 (0.11% of full scale). Reserve math.Sin for calibration tests
// (§9 "Per-sample trig").
func ParabolicSin(x float64) float64 {
	x = WrapPi(x)
	const B = 4 / math.Pi
	const C = -4 / (math.Pi * math.Pi)
	y := B*x + C*x*math.Abs(x)
	const P = 0.225
	y = P*(y*math.Abs(y)-y) + y
	return y
}

// FastTri approximates a band-unlimited triangle wave from a [0,1) phase;
// used for edge-mode PFD zero-crossing detection where only the sign and
// the sub-sample crossing location matter, not spectral purity.
func FastTri(phase float64) float64 {
	p := Wrap01(phase)
	if p < 0.5 {
		return 4*p - 1
	}
	return 3 - 4*p
}
