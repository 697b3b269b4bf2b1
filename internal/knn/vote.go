package knn

// MajorityVote returns the most frequent label. Among labels sharing the
// highest count, the one encountered first in labels wins, so [A B A B]
// yields A and [B A A B] yields B. This is first-encounter order, not the
// order in which labels reach the peak count. An empty input returns 0.
func MajorityVote(labels []int) int {
	counts := make(map[int]int, len(labels))
	order := make([]int, 0, len(labels))
	for _, label := range labels {
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
	}

	winner, best := 0, 0
	for _, label := range order {
		if counts[label] > best {
			winner, best = label, counts[label]
		}
	}
	return winner
}
