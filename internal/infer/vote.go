// Package infer picks a column's pattern family by polling a sample of its
// values.
package infer

import (
	"github.com/gyeh/tempinfer/internal/temporal"
)

// Result is the outcome of a vote over a column sample.
type Result struct {
	Family    temporal.Family
	Found     bool
	Votes     map[temporal.Family]int
	Sampled   int
	Unmatched int
	// Pattern is the first pattern of the winning family that matched a
	// sampled value, and Example that value.
	Pattern string
	Example string
}

// Share is the winning family's fraction of the sampled values.
func (r Result) Share() float64 {
	if !r.Found || r.Sampled == 0 {
		return 0
	}
	return float64(r.Votes[r.Family]) / float64(r.Sampled)
}

// Vote classifies up to sampleSize non-null values, spread evenly across
// col, against the default catalog. sampleSize <= 0 samples every value.
func Vote(col temporal.StringColumn, sampleSize int) Result {
	return VoteWith(temporal.DefaultCatalog(), col, sampleSize)
}

// VoteWith is Vote against an explicit catalog. The family with the most
// votes wins; ties go to the family tried first by Detect.
func VoteWith(cat *temporal.Catalog, col temporal.StringColumn, sampleSize int) Result {
	res := Result{Votes: make(map[temporal.Family]int)}
	firstHit := make(map[temporal.Family]int)

	for _, i := range sampleIndices(col, sampleSize) {
		v := col.Value(i)
		res.Sampled++
		f, ok := cat.Detect(v)
		if !ok {
			res.Unmatched++
			continue
		}
		if res.Votes[f] == 0 {
			firstHit[f] = i
		}
		res.Votes[f]++
	}

	best := 0
	for _, f := range temporal.AllFamilies() {
		if n := res.Votes[f]; n > best {
			best = n
			res.Family = f
			res.Found = true
		}
	}
	if res.Found {
		res.Example = col.Value(firstHit[res.Family])
		if p, ok := cat.Match(res.Family, res.Example); ok {
			res.Pattern = p.String()
		}
	}
	return res
}

func sampleIndices(col temporal.StringColumn, sampleSize int) []int {
	var idx []int
	for i := 0; i < col.Len(); i++ {
		if !col.IsNull(i) {
			idx = append(idx, i)
		}
	}
	if sampleSize <= 0 || len(idx) <= sampleSize {
		return idx
	}
	out := make([]int, sampleSize)
	for k := range out {
		out[k] = idx[k*len(idx)/sampleSize]
	}
	return out
}
