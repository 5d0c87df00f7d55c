package detector

import (
	"math"
	"time"

	"homefinance-recurring-service/internal/models"
)

// cadenceBucket defines the acceptable day range for one billing frequency.
// The same range gates both the mean interval and the per-interval
// consistency check.
type cadenceBucket struct {
	frequency models.Frequency
	minDays   float64
	maxDays   float64
}

// Buckets are checked in order. The ranges are deliberately wide enough to
// absorb weekend and holiday drift: a monthly bill can land anywhere from
// 25 to 35 days after the previous one.
var cadenceBuckets = []cadenceBucket{
	{frequency: models.FrequencyWeekly, minDays: 5, maxDays: 9},
	{frequency: models.FrequencyBiweekly, minDays: 11, maxDays: 17},
	{frequency: models.FrequencyMonthly, minDays: 25, maxDays: 35},
}

// intervalDays returns the whole-day gaps between consecutive dates.
// Dates must already be sorted ascending.
func intervalDays(dates []time.Time) []float64 {
	if len(dates) < 2 {
		return nil
	}

	intervals := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		days := math.Round(dates[i].Sub(dates[i-1]).Hours() / 24.0)
		intervals = append(intervals, days)
	}

	return intervals
}

// meanFloat returns the arithmetic mean of values, or 0 for an empty slice.
func meanFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// DetectCadence infers the billing frequency from a sorted date sequence.
// The mean interval selects a candidate bucket; the bucket holds only if
// at least consistencyRatio of the individual intervals fall inside its
// range, so a mean that merely averages out wild spacing is rejected.
// Returns false when no bucket fits.
func DetectCadence(dates []time.Time, consistencyRatio float64) (models.Frequency, bool) {
	intervals := intervalDays(dates)
	if len(intervals) == 0 {
		return "", false
	}

	mean := meanFloat(intervals)

	for _, bucket := range cadenceBuckets {
		if mean < bucket.minDays || mean > bucket.maxDays {
			continue
		}

		inRange := 0
		for _, interval := range intervals {
			if interval >= bucket.minDays && interval <= bucket.maxDays {
				inRange++
			}
		}

		if float64(inRange)/float64(len(intervals)) >= consistencyRatio {
			return bucket.frequency, true
		}
		return "", false
	}

	return "", false
}
