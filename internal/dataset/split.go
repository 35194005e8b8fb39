package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ErrTooSmall is returned when a partition would be empty.
var ErrTooSmall = errors.New("dataset too small to split")

// Split partitions row indexes into train and test sets. The test set holds
// ceil(testSize*n) rows. The same labels, testSize, seed and stratify always
// yield the same partition. With stratify, every class with at least two
// rows keeps its share of rows in both partitions; a class with a single
// row (see Singletons) goes to the training set.
func Split(labels []int, testSize float64, seed int64, stratify bool) (train, test []int, err error) {
	n := len(labels)
	if n == 0 {
		return nil, nil, ErrEmpty
	}
	nTest := int(math.Ceil(testSize*float64(n) - 1e-9))
	if nTest <= 0 || nTest >= n {
		return nil, nil, fmt.Errorf("%w: %d rows with test size %v", ErrTooSmall, n, testSize)
	}

	rnd := rand.New(rand.NewSource(seed))

	if !stratify {
		perm := rnd.Perm(n)
		return perm[nTest:], perm[:nTest], nil
	}

	byClass := make(map[int][]int)
	for i, y := range labels {
		byClass[y] = append(byClass[y], i)
	}
	classes := make([]int, 0, len(byClass))
	for c, idx := range byClass {
		if len(idx) < 2 {
			train = append(train, idx...)
			continue
		}
		classes = append(classes, c)
	}
	if len(classes) == 0 {
		return nil, nil, fmt.Errorf("%w: no class has 2 rows to stratify on", ErrTooSmall)
	}
	sort.Ints(classes)
	sort.Ints(train)

	quota := allocate(classes, byClass, nTest, n-len(train))

	for _, c := range classes {
		idx := append([]int(nil), byClass[c]...)
		rnd.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		test = append(test, idx[:quota[c]]...)
		train = append(train, idx[quota[c]:]...)
	}
	rnd.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rnd.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })
	return train, test, nil
}

// Singletons returns, ascending, the labels that occur on exactly one row.
// A stratified Split keeps those rows out of the test set.
func Singletons(labels []int) []int {
	counts := make(map[int]int)
	for _, y := range labels {
		counts[y]++
	}
	var out []int
	for y, c := range counts {
		if c == 1 {
			out = append(out, y)
		}
	}
	sort.Ints(out)
	return out
}

// allocate distributes nTest test rows across classes proportionally using
// largest remainders. Each class keeps at least one training row.
func allocate(classes []int, byClass map[int][]int, nTest, n int) map[int]int {
	type share struct {
		class int
		frac  float64
	}
	quota := make(map[int]int, len(classes))
	shares := make([]share, 0, len(classes))
	assigned := 0
	for _, c := range classes {
		exact := float64(nTest) * float64(len(byClass[c])) / float64(n)
		q := int(math.Floor(exact))
		quota[c] = q
		assigned += q
		shares = append(shares, share{class: c, frac: exact - float64(q)})
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].frac > shares[j].frac })

	for assigned < nTest {
		moved := false
		for _, s := range shares {
			if assigned == nTest {
				break
			}
			if quota[s.class] < len(byClass[s.class])-1 {
				quota[s.class]++
				assigned++
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	for _, c := range classes {
		if limit := len(byClass[c]) - 1; quota[c] > limit {
			quota[c] = limit
		}
	}
	return quota
}
