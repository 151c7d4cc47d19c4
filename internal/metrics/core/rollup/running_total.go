package rollup

import (
	"fmt"

	"activation-metrics-service/internal/metrics/core/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// RunningTotals walks each entity row of t once in ascending period order and
// emits the accumulator after adding the current period. The result has the
// same entity-major layout as t.Cells. Entities are independent, so up to
// workers rows are scanned concurrently; each worker writes only its own
// slice window. A row whose cells belong to another entity fails the scan.
func RunningTotals(t *CellTable, m domain.Measure, workers int) ([]domain.RunningTotal, error) {
	n := t.Grid.Len()
	out := make([]domain.RunningTotal, len(t.Cells))
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for e, id := range t.Entities {
		e, id := e, id // per-iteration copies under the go 1.21 loop semantics
		g.Go(func() error {
			acc := decimal.Zero
			dst := out[e*n : (e+1)*n]
			for i, cell := range t.Row(e) {
				if cell.EntityID != id {
					return fmt.Errorf("running totals: row %d holds a cell for %q, want %q", e, cell.EntityID, id)
				}
				acc = acc.Add(cell.Value(m))
				dst[i] = domain.RunningTotal{
					EntityID:        cell.EntityID,
					PeriodStart:     cell.PeriodStart,
					CumulativeValue: acc,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// Downsample converts daily running totals into running totals on target by
// taking, for every target period, the daily value on its last day. Summing
// coarse buckets independently would lose mid-period activity ordering, so
// coarse totals are always derived from the daily scan.
func Downsample(totals []domain.RunningTotal, daily, target domain.CalendarGrid) ([]domain.RunningTotal, error) {
	if target.Period == domain.PeriodDay {
		return totals, nil
	}

	nd := daily.Len()
	if nd == 0 {
		return nil, &domain.InvalidRangeError{Reason: "empty daily grid"}
	}
	if len(totals)%nd != 0 {
		return nil, fmt.Errorf("running totals length %d is not a multiple of %d days", len(totals), nd)
	}

	// Resolve the last-day index of every target period once.
	lastDay := make([]int, target.Len())
	for w, b := range target.Boundaries {
		idx, ok := daily.IndexOf(b.End)
		if !ok {
			return nil, &domain.InvalidRangeError{Reason: fmt.Sprintf("period ending %s is outside the daily grid", b.End)}
		}
		lastDay[w] = idx
	}

	entities := len(totals) / nd
	out := make([]domain.RunningTotal, 0, entities*target.Len())
	for e := 0; e < entities; e++ {
		row := totals[e*nd : (e+1)*nd]
		for w, b := range target.Boundaries {
			out = append(out, domain.RunningTotal{
				EntityID:        row[lastDay[w]].EntityID,
				PeriodStart:     b.Start,
				CumulativeValue: row[lastDay[w]].CumulativeValue,
			})
		}
	}

	return out, nil
}
