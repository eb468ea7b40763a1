// Package stats computes read-only aggregates over the record set. Nothing
// here mutates a record.
package stats

import "predtrack/models"

// Compute aggregates records into display statistics. Accuracy and Brier
// score are nil when no records have resolved; they degrade to JSON null
// rather than NaN.
func Compute(records []*models.Record) models.Stats {
	s := models.Stats{
		CategoryCounts: make(map[string]int),
	}

	var brierSum float64
	for _, rec := range records {
		s.Total++

		switch {
		case rec.Confidence <= 33:
			s.ConfidenceBuckets.Low++
		case rec.Confidence <= 66:
			s.ConfidenceBuckets.Medium++
		default:
			s.ConfidenceBuckets.High++
		}

		for _, cat := range rec.Categories {
			s.CategoryCounts[cat]++
		}

		if !rec.Resolved {
			s.Pending++
			continue
		}

		s.Resolved++
		outcome := 0.0
		if rec.Status == models.StatusCorrect {
			s.Correct++
			outcome = 1.0
		} else {
			s.Incorrect++
		}
		diff := float64(rec.Confidence)/100 - outcome
		brierSum += diff * diff
	}

	if s.Resolved > 0 {
		accuracy := float64(s.Correct) / float64(s.Resolved)
		brier := brierSum / float64(s.Resolved)
		s.Accuracy = &accuracy
		s.BrierScore = &brier
	}
	return s
}
