package main

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
)

type report struct {
	Received   int
	Min, Max   int64
	Duplicates []int64
	Missing    []int64
}

// analyze checks that the observed counts form a contiguous run without repeats.
// Missing values inside the run belong to other clients, or to requests that the
// server committed but whose response never arrived, such as a client-side timeout.
// A gap alone is therefore not a lost update in the store.
func analyze(counts []int64) report {
	r := report{Received: len(counts)}
	if len(counts) == 0 {
		return r
	}
	r.Min = lo.Min(counts)
	r.Max = lo.Max(counts)
	r.Duplicates = lo.FindDuplicates(counts)
	sort.Slice(r.Duplicates, func(i, j int) bool { return r.Duplicates[i] < r.Duplicates[j] })

	expected := lo.RangeFrom(r.Min, int(r.Max-r.Min+1))
	r.Missing, _ = lo.Difference(expected, counts)
	return r
}

func (r report) OK() bool {
	return len(r.Duplicates) == 0 && len(r.Missing) == 0
}

func (r report) String() string {
	return fmt.Sprintf("received=%s, range=[%s, %s], duplicates=%d, missing=%d",
		humanize.Comma(int64(r.Received)), humanize.Comma(r.Min), humanize.Comma(r.Max),
		len(r.Duplicates), len(r.Missing))
}
