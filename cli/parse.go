package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrEmptySelection is returned by ParseSelection when the input names nothing.
var ErrEmptySelection = errors.New("nothing selected")

// ParseIndex parses a 1-based menu number and returns the 0-based index.
func ParseIndex(input string, n int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", strings.TrimSpace(input))
	}
	if v < 1 || v > n {
		return 0, fmt.Errorf("invalid number: %d (choose 1-%d)", v, n)
	}
	return v - 1, nil
}

// ParseSelection parses a comma separated list of 1-based menu numbers, or
// "all", into sorted, de-duplicated 0-based indices.
func ParseSelection(input string, n int) ([]int, error) {
	if strings.EqualFold(strings.TrimSpace(input), "all") {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	var parts []string
	for _, p := range strings.Split(input, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil, ErrEmptySelection
	}
	seen := make(map[int]bool, len(parts))
	var indices []int
	for _, p := range parts {
		idx, err := ParseIndex(p, n)
		if err != nil {
			return nil, err
		}
		if !seen[idx] {
			seen[idx] = true
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)
	return indices, nil
}
