package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// parse reads "v1.2.3" or "1.2.3" into its three numeric parts. Pre-release and
// build suffixes on the patch number are ignored.
func parse(s string) ([]int, error) {
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(s), "v"), ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("version %q: want major.minor.patch", s)
	}

	parts[2], _, _ = strings.Cut(parts[2], "-")
	parts[2], _, _ = strings.Cut(parts[2], "+")

	numbers := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("version %q: bad number %q", s, p)
		}
		numbers = append(numbers, n)
	}

	return numbers, nil
}

// Compare returns 1 when a is newer than b, -1 when older and 0 when equal.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	return lo.Clamp(slices.Compare(av, bv), -1, 1), nil
}
