package selection

import "slices"

// Episode is a surviving candidate with its position in the output set.
type Episode struct {
	Candidate   Candidate
	Index       int
	OffsetIndex int
}

// Sequence orders candidates disc by disc and title by title (both natural
// order) and numbers them from offset without gaps. OffsetIndex is always
// Index+1.
func Sequence(candidates []Candidate, offset int) []Episode {
	ordered := slices.Clone(candidates)
	slices.SortStableFunc(ordered, compareCandidates)
	episodes := make([]Episode, 0, len(ordered))
	for i, c := range ordered {
		index := offset + i
		episodes = append(episodes, Episode{Candidate: c, Index: index, OffsetIndex: index + 1})
	}
	return episodes
}
