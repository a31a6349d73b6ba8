package parquetio

import (
	"errors"
	"io"
	"sort"
)

// CategoryTotal aggregates results for one RUG category.
type CategoryTotal struct {
	Category            string
	Count               int64
	DailyRateCents      int64
	MonthlyRevenueCents int64
}

// Summary aggregates a results file.
type Summary struct {
	Rows                int64
	MeanCaseMixIndex    float64
	DailyRateCents      int64
	MonthlyRevenueCents int64
	Categories          []CategoryTotal
}

const readBatchSize = 1024

// Summarize streams a results file and totals it per category. Categories
// are ordered by descending count, then name.
func Summarize(r *Reader) (*Summary, error) {
	byCat := make(map[string]*CategoryTotal)
	s := &Summary{}
	var cmiSum float64

	buf := make([]Record, readBatchSize)
	for {
		n, err := r.Read(buf)
		for _, rec := range buf[:n] {
			s.Rows++
			cmiSum += rec.CaseMixIndex
			s.DailyRateCents += rec.DailyRateCents
			s.MonthlyRevenueCents += rec.MonthlyRevenueCents

			ct, ok := byCat[rec.RUGCategory]
			if !ok {
				ct = &CategoryTotal{Category: rec.RUGCategory}
				byCat[rec.RUGCategory] = ct
			}
			ct.Count++
			ct.DailyRateCents += rec.DailyRateCents
			ct.MonthlyRevenueCents += rec.MonthlyRevenueCents
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	if s.Rows > 0 {
		s.MeanCaseMixIndex = cmiSum / float64(s.Rows)
	}
	for _, ct := range byCat {
		s.Categories = append(s.Categories, *ct)
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		a, b := s.Categories[i], s.Categories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	return s, nil
}
