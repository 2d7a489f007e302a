package reputation

import (
	"foodlink/internal/reputation/models"
)

// Decide applies the ban rules. avg is the mean over all rated deliveries
// (nil when there are none); recent holds the newest rated deliveries first.
//
// The average rule wins when both apply. The consecutive rule needs a full
// window of ratings, every one below the item cutoff.
func Decide(avg *float64, recent []float64, cfg Config) models.Decision {
	d := models.Decision{Average: avg, Recent: recent}

	if avg != nil && *avg < cfg.AverageCutoff {
		d.Ban = true
		d.Reason = models.ReasonLowAverage
		return d
	}

	if cfg.WindowSize <= 0 || len(recent) < cfg.WindowSize {
		return d
	}
	for _, r := range recent[:cfg.WindowSize] {
		if r >= cfg.ItemCutoff {
			return d
		}
	}
	d.Ban = true
	d.Reason = models.ReasonConsecutiveLow
	return d
}
