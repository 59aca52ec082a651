package picosvg

// Defaults for the tunable knobs of normalization.
const (
	// DefaultNDigits is the output rounding precision.
	DefaultNDigits = 3
	// DefaultEpsilon bounds when a residual transform counts as
	// identity during gradient transform folding.
	DefaultEpsilon = 1e-6
	// toleranceRatio sets the curve flattening tolerance for boolean
	// geometry, as a fraction of the larger viewBox dimension.
	toleranceRatio = 0.001
)

type options struct {
	allowText       bool
	allowAllDefs    bool
	dropUnsupported bool
	inPlace         bool
	ndigits         int
	epsilon         float64
}

// Option adjusts how ToPicoSVG and Check behave.
type Option func(*options)

// AllowText keeps text, tspan and textPath elements as opaque
// passthrough content instead of rejecting them.
func AllowText() Option { return func(o *options) { o.allowText = true } }

// AllowAllDefs keeps filter, mask, pattern, switch, symbol, marker and
// style elements as opaque passthrough content instead of rejecting
// them. foreignObject is never allowed; it can embed arbitrary markup.
func AllowAllDefs() Option { return func(o *options) { o.allowAllDefs = true } }

// DropUnsupported silently removes unsupported elements instead of
// failing on the first one.
func DropUnsupported() Option { return func(o *options) { o.dropUnsupported = true } }

// InPlace mutates the receiving document instead of normalizing a copy.
func InPlace() Option { return func(o *options) { o.inPlace = true } }

// NDigits sets the coordinate rounding precision of the output.
func NDigits(n int) Option { return func(o *options) { o.ndigits = n } }

// Epsilon sets the numeric tolerance for gradient transform folding.
func Epsilon(e float64) Option { return func(o *options) { o.epsilon = e } }

func buildOptions(opts []Option) options {
	o := options{ndigits: DefaultNDigits, epsilon: DefaultEpsilon}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
