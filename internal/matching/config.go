package matching

// DefaultRadiusKm is the proximity radius. The boundary is inclusive.
const DefaultRadiusKm = 5.0

// Config holds the engine's fixed thresholds.
type Config struct {
	RadiusKm float64
}

func DefaultConfig() Config {
	return Config{RadiusKm: DefaultRadiusKm}
}
