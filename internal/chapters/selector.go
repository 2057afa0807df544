package chapters

import (
	"strconv"
	"strings"
)

// Filter narrows the menu to a 1-based range ("5-12") or list ("1,3,5").
// Range wins over list; with neither the full menu is returned.
func Filter(all []Chapter, rng string, list string) []Chapter {
	if strings.TrimSpace(rng) != "" {
		return FilterChapterRange(all, rng)
	}
	if strings.TrimSpace(list) != "" {
		return FilterChapterList(all, list)
	}

	return all
}

func FilterChapterRange(all []Chapter, rng string) []Chapter {
	parts := strings.Split(rng, "-")
	if len(parts) != 2 {
		return nil
	}

	start, err1 := atoi(parts[0])
	end, err2 := atoi(parts[1])
	if err1 != nil || err2 != nil {
		return nil
	}
	if start <= 0 || end <= 0 || start > end || end > len(all) {
		return nil
	}

	return all[start-1 : end]
}

// FilterChapterList keeps the first occurrence of each position.
func FilterChapterList(all []Chapter, list string) []Chapter {
	out := []Chapter{}
	seen := make(map[int]bool)
	for n := range strings.SplitSeq(list, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}

		idx, err := atoi(n)
		if err != nil {
			continue
		}
		if idx <= 0 || idx > len(all) || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, all[idx-1])
	}

	return out
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
