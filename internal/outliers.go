package internal

import "sort"

// RemoveAmountOutliers drops records whose amounts fall outside the
// interquartile fence (1.5×IQR beyond the first or third quartile).
//
// This is an explicitly-invoked capability: the primary statistics path does
// not call it, because a legitimate annual charge in a monthly group would
// otherwise vanish from the averages.
func RemoveAmountOutliers(records []*Record) []*Record {
	if len(records) < 4 {
		return records
	}

	amounts := make([]float64, len(records))
	for i, r := range records {
		amounts[i] = r.Amount.InexactFloat64()
	}
	sort.Float64s(amounts)

	q1 := quantile(amounts, 0.25)
	q3 := quantile(amounts, 0.75)
	iqr := q3 - q1
	lo := q1 - 1.5*iqr
	hi := q3 + 1.5*iqr

	var kept []*Record
	for _, r := range records {
		amt := r.Amount.InexactFloat64()
		if amt >= lo && amt <= hi {
			kept = append(kept, r)
		}
	}
	return kept
}

// quantile linearly interpolates the q-th quantile of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
