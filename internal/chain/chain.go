// Package chain restores intra-day transaction order from running
// balances.
//
// Bank exports list same-day operations in arbitrary order, but every row
// carries the balance after the operation. Subtracting the amount gives
// the balance before it, and rows whose before/after balances meet form a
// chain that reproduces the real execution order. When the chain cannot be
// reconstructed (missing rows, cycles, ambiguous splits) the group falls
// back to a deterministic balance sort instead of guessing.
package chain

import (
	"sort"

	"github.com/DevTechCode/rachunek-bankowy/internal/model"
)

type groupKey struct {
	day      string
	currency string
}

// Sort orders a batch of transactions: days ascending, currencies grouped
// within a day, and same-day rows in balance-chain order. A final stable
// pass inside each day orders by value date without breaking resolved
// chain links.
func Sort(txs []*model.Transaction) []*model.Transaction {
	groups := make(map[groupKey][]*model.Transaction)
	var keys []groupKey
	for _, tx := range txs {
		k := groupKey{day: model.DateKey(tx.OperationDate), currency: tx.Amount.Currency()}
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], tx)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].day != keys[j].day {
			return keys[i].day < keys[j].day
		}
		return keys[i].currency < keys[j].currency
	})

	out := make([]*model.Transaction, 0, len(txs))
	dayStart := 0
	curDay := ""
	flushDay := func(end int) {
		sort.SliceStable(out[dayStart:end], func(i, j int) bool {
			return out[dayStart+i].ValueDate.Before(out[dayStart+j].ValueDate)
		})
	}
	for _, k := range keys {
		if k.day != curDay {
			flushDay(len(out))
			dayStart = len(out)
			curDay = k.day
		}
		out = append(out, orderGroup(groups[k])...)
	}
	flushDay(len(out))
	return out
}

// startBalance is the balance before the operation, in minor units.
func startBalance(tx *model.Transaction) int64 {
	return tx.EndingBalance.Minor() - tx.Amount.Minor()
}

// orderGroup chains one (day, currency) group. The walk is bounded and
// deterministic; hash order breaks every tie.
func orderGroup(group []*model.Transaction) []*model.Transaction {
	if len(group) < 2 {
		return group
	}

	endSet := make(map[int64]bool, len(group))
	for _, tx := range group {
		endSet[tx.EndingBalance.Minor()] = true
	}

	// Buckets of unused transactions keyed by their start balance.
	byStart := make(map[int64][]*model.Transaction, len(group))
	for _, tx := range group {
		byStart[startBalance(tx)] = append(byStart[startBalance(tx)], tx)
	}
	for _, bucket := range byStart {
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].DedupHash < bucket[j].DedupHash })
	}

	// Heads are rows whose start balance no other row produced.
	var heads []*model.Transaction
	for _, tx := range group {
		if !endSet[startBalance(tx)] {
			heads = append(heads, tx)
		}
	}
	sort.Slice(heads, func(i, j int) bool {
		si, sj := startBalance(heads[i]), startBalance(heads[j])
		if si != sj {
			return si < sj
		}
		return heads[i].DedupHash < heads[j].DedupHash
	})

	used := make(map[*model.Transaction]bool, len(group))
	take := func(start int64) *model.Transaction {
		for _, tx := range byStart[start] {
			if !used[tx] {
				used[tx] = true
				return tx
			}
		}
		return nil
	}

	ordered := make([]*model.Transaction, 0, len(group))
	guard := len(group) + 5
	for _, head := range heads {
		if used[head] {
			continue
		}
		used[head] = true
		ordered = append(ordered, head)
		cur := head
		for steps := 0; steps < guard; steps++ {
			next := take(cur.EndingBalance.Minor())
			if next == nil {
				break
			}
			ordered = append(ordered, next)
			cur = next
		}
	}

	// Rows no walk could reach (cycles, missing links) go after the
	// resolved chains in fallback order. The chains themselves keep
	// their reconstructed order.
	if len(ordered) != len(group) {
		leftovers := make([]*model.Transaction, 0, len(group)-len(ordered))
		for _, tx := range group {
			if !used[tx] {
				leftovers = append(leftovers, tx)
			}
		}
		ordered = append(ordered, fallbackOrder(leftovers)...)
	}
	return ordered
}

// fallbackOrder sorts by (start balance, end balance, hash). It is wrong
// about real execution order but stable across runs and inputs.
func fallbackOrder(group []*model.Transaction) []*model.Transaction {
	sorted := make([]*model.Transaction, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(i, j int) bool {
		si, sj := startBalance(sorted[i]), startBalance(sorted[j])
		if si != sj {
			return si < sj
		}
		ei, ej := sorted[i].EndingBalance.Minor(), sorted[j].EndingBalance.Minor()
		if ei != ej {
			return ei < ej
		}
		return sorted[i].DedupHash < sorted[j].DedupHash
	})
	return sorted
}
