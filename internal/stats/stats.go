// Package stats computes completion rates over attendance records. All
// functions are pure: empty input degrades to a zero rate, never an error.
package stats

import (
	"sort"

	"habitio-service/internal/domain/entity"

	"github.com/google/uuid"
)

// eligible reports whether a record counts toward a rate: scheduled days
// always count, and a habit completed on an off-day still counts toward its
// own rate, while untouched off-days are not held against it.
func eligible(r *entity.Record) bool {
	return r.IsEnabled || r.Done
}

// Rate returns count(done) / count(eligible) over the given records, or 0
// if no record is eligible. The result is always within [0, 1].
func Rate(records []*entity.Record) float64 {
	var done, total int
	for _, r := range records {
		if !eligible(r) {
			continue
		}
		total++
		if r.Done {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// RateByWeekday buckets the rates of the most recent window reports by the
// weekday of each report's date and averages within each bucket. The result
// always has exactly seven values in calendar order (Sunday first); a bucket
// with no samples yields 0. window <= 0 means all reports.
func RateByWeekday(reports []*entity.Report, window int) []float64 {
	buckets := make([][]float64, len(entity.Weekdays))
	for _, report := range recent(reports, window) {
		day := int(report.Date.Weekday())
		buckets[day] = append(buckets[day], Rate(report.Records))
	}

	rates := make([]float64, len(buckets))
	for i, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		var sum float64
		for _, v := range bucket {
			sum += v
		}
		rates[i] = sum / float64(len(bucket))
	}
	return rates
}

// RateByDay returns one rate per report of the most recent window reports,
// in chronological order, for rendering rate-over-time series. window <= 0
// means all reports.
func RateByDay(reports []*entity.Report, window int) []entity.DailyRate {
	selected := recent(reports, window)
	rates := make([]entity.DailyRate, 0, len(selected))
	for _, report := range selected {
		rates = append(rates, entity.DailyRate{
			Date: report.Date,
			Rate: Rate(report.Records),
		})
	}
	return rates
}

// RateByHabit flattens the records of the most recent window reports, keeps
// those belonging to the habit, and computes the same eligible ratio as Rate.
func RateByHabit(reports []*entity.Report, habitID uuid.UUID, window int) float64 {
	var records []*entity.Record
	for _, report := range recent(reports, window) {
		for _, r := range report.Records {
			if r.HabitID == habitID {
				records = append(records, r)
			}
		}
	}
	return Rate(records)
}

// recent returns the last window reports in chronological order.
func recent(reports []*entity.Report, window int) []*entity.Report {
	sorted := make([]*entity.Report, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	if window > 0 && len(sorted) > window {
		sorted = sorted[len(sorted)-window:]
	}
	return sorted
}
