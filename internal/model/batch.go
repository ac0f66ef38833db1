package model

import "sort"

// Deduplicate removes transactions whose dedup hash was already seen,
// keeping the first occurrence and the original order of the rest.
func Deduplicate(txs []*Transaction) []*Transaction {
	seen := make(map[string]struct{}, len(txs))
	out := make([]*Transaction, 0, len(txs))
	for _, t := range txs {
		if _, ok := seen[t.DedupHash]; ok {
			continue
		}
		seen[t.DedupHash] = struct{}{}
		out = append(out, t)
	}
	return out
}

// SortCanonical orders a batch by operation date, then value date, then
// dedup hash. This is the global stable order applied before the day-local
// balance-chain pass.
func SortCanonical(txs []*Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		if !a.OperationDate.Equal(b.OperationDate) {
			return a.OperationDate.Before(b.OperationDate)
		}
		if !a.ValueDate.Equal(b.ValueDate) {
			return a.ValueDate.Before(b.ValueDate)
		}
		return a.DedupHash < b.DedupHash
	})
}
