package reputation

const (
	DefaultAverageCutoff = 2.0
	DefaultWindowSize    = 3
	DefaultItemCutoff    = 2.0
)

// Config holds the ban thresholds. Comparisons against both cutoffs are strict.
type Config struct {
	AverageCutoff float64
	WindowSize    int
	ItemCutoff    float64
}

func DefaultConfig() Config {
	return Config{
		AverageCutoff: DefaultAverageCutoff,
		WindowSize:    DefaultWindowSize,
		ItemCutoff:    DefaultItemCutoff,
	}
}
