package strength

import (
	"math"
	"sort"
	"time"

	"AlphaLabs/internal/domain/models"
)

// Calculator turns two pairwise-rate snapshots into a ranked per-currency
// strength table.
//
// Quoting convention (applied uniformly): every rate map entry is pivot units
// per one unit of the keyed currency, so a rising rate means that currency
// strengthened against the pivot. The pivot's own rate is implicitly 1.0 (an
// explicit entry, if present, is used as-is). The pivot's score therefore
// needs no sign flip: it falls out of the same cross formula as everyone
// else's, averaging the pivot's percent change against each other currency.
type Calculator struct {
	pivot string
	codes []string
}

// NewCalculator creates a calculator over a fixed ordered currency set. The
// set is expected to contain the pivot code itself.
func NewCalculator(pivot string, codes []string) *Calculator {
	return &Calculator{pivot: pivot, codes: codes}
}

// Pivot returns the configured pivot code.
func (c *Calculator) Pivot() string { return c.pivot }

// Rank scores every currency in the set as the arithmetic mean of its percent
// change across all pairings with the other set members, then sorts
// descending by raw score. A currency missing from either snapshot is skipped
// per pairing; zero valid pairings yields score 0.
func (c *Calculator) Rank(current, reference map[string]float64, refDate, now time.Time) models.StrengthTable {
	scores := make([]float64, len(c.codes))
	for i, code := range c.codes {
		scores[i] = c.score(code, current, reference)
	}

	minScore, maxScore := scores[0], scores[0]
	for _, s := range scores[1:] {
		minScore = math.Min(minScore, s)
		maxScore = math.Max(maxScore, s)
	}

	entries := make([]models.StrengthEntry, len(c.codes))
	for i, code := range c.codes {
		entries[i] = models.StrengthEntry{
			Code:          code,
			ChangePercent: scores[i],
			Momentum:      momentum(scores[i], minScore, maxScore),
			Trend:         trend(scores[i]),
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ChangePercent > entries[j].ChangePercent
	})

	return models.StrengthTable{
		Entries:       entries,
		Pivot:         c.pivot,
		ReferenceDate: refDate,
		ComputedAt:    now,
	}
}

func (c *Calculator) score(code string, current, reference map[string]float64) float64 {
	curC, okCurC := c.rate(current, code)
	refC, okRefC := c.rate(reference, code)
	if !okCurC || !okRefC {
		return 0
	}

	sum, pairs := 0.0, 0
	for _, other := range c.codes {
		if other == code {
			continue
		}
		curQ, okCurQ := c.rate(current, other)
		refQ, okRefQ := c.rate(reference, other)
		if !okCurQ || !okRefQ {
			continue // partial averages are allowed
		}
		// cross rate of code in units of other, now vs reference
		cur := curC / curQ
		ref := refC / refQ
		sum += (cur - ref) / ref * 100
		pairs++
	}
	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}

func (c *Calculator) rate(m map[string]float64, code string) (float64, bool) {
	if v, ok := m[code]; ok && v > 0 {
		return v, true
	}
	if code == c.pivot {
		return 1.0, true
	}
	return 0, false
}

// momentum is a 0..100 linear rescale of the raw score across this pass,
// defaulting to 50 when the range is zero.
func momentum(v, minScore, maxScore float64) int {
	if maxScore == minScore {
		return 50
	}
	return int(math.Round((v - minScore) / (maxScore - minScore) * 100))
}

func trend(score float64) models.Trend {
	if score < 0 {
		return models.TrendBearish
	}
	return models.TrendBullish
}
