package attendance

import (
	"sort"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/attendance"
)

// Normalize converts the six category counts (canonical order: present,
// absent, late, od, permission, holiday) into integer percentage shares
// using the largest-remainder method. Shares sum to exactly 100, or are all
// zero when every count is zero.
//
// Leftover points go to the largest fractional remainder first. Equal
// remainders are broken by the larger raw count, then by canonical order.
func Normalize(counts [6]int) attendance.CategoryShares {
	total := 0
	for i, c := range counts {
		if c < 0 {
			counts[i] = 0
			continue
		}
		total += c
	}
	if total == 0 {
		return attendance.CategoryShares{}
	}

	var shares [6]int
	var remainders [6]int
	allocated := 0
	for i, c := range counts {
		shares[i] = c * 100 / total
		remainders[i] = c * 100 % total
		allocated += shares[i]
	}

	order := []int{0, 1, 2, 3, 4, 5}
	sort.SliceStable(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if remainders[i] != remainders[j] {
			return remainders[i] > remainders[j]
		}
		return counts[i] > counts[j]
	})
	for k := 0; k < 100-allocated; k++ {
		shares[order[k]]++
	}

	return attendance.CategoryShares{
		Present:    shares[0],
		Absent:     shares[1],
		Late:       shares[2],
		OD:         shares[3],
		Permission: shares[4],
		Holiday:    shares[5],
	}
}
