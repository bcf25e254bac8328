package virtual

const (
	DefaultThreshold       = 50
	DefaultOverscan        = 5
	DefaultEstimatedHeight = 80
	DefaultBottomTolerance = 1

	// resizeEpsilon is the smallest height change the size observer reacts
	// to.
	resizeEpsilon = 0.5
)

type options struct {
	threshold       int
	overscan        int
	estimatedHeight float64
	bottomTolerance float64
	scheduler       Scheduler
	observe         bool
	onModeChange    func(Mode)
}

// Option configures a Scroller.
type Option func(*options)

// WithThreshold sets the item count at which the scroller switches to
// virtualized mode.
func WithThreshold(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.threshold = n
		}
	}
}

// WithOverscan sets how many extra items are mounted past each edge of the
// viewport.
func WithOverscan(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.overscan = n
		}
	}
}

// WithEstimatedHeight sets the height assumed for items that were never
// measured.
func WithEstimatedHeight(h float64) Option {
	return func(o *options) {
		if h > 0 {
			o.estimatedHeight = h
		}
	}
}

// WithBottomTolerance sets how close to the end of the content IsAtBottom
// still reports true.
func WithBottomTolerance(d float64) Option {
	return func(o *options) {
		if d >= 0 {
			o.bottomTolerance = d
		}
	}
}

// WithScheduler sets the frame scheduler used to coalesce scroll signals.
// By default the container is used when it implements Scheduler, otherwise
// every signal recomputes synchronously.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithoutSizeObserver ignores the container's size observation capability.
func WithoutSizeObserver() Option {
	return func(o *options) {
		o.observe = false
	}
}

// WithModeChangeHook registers fn to be called after every mode transition.
func WithModeChangeHook(fn func(Mode)) Option {
	return func(o *options) {
		o.onModeChange = fn
	}
}

func defaultOptions() options {
	return options{
		threshold:       DefaultThreshold,
		overscan:        DefaultOverscan,
		estimatedHeight: DefaultEstimatedHeight,
		bottomTolerance: DefaultBottomTolerance,
		observe:         true,
	}
}
