package utils

// SuggestionRanks returns the 1-based ranks sent with IPC suggestions. The
// words are already ordered closest first, so rank follows position.
func SuggestionRanks(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range ranks {
		ranks[i] = uint16(i + 1)
	}
	return ranks
}
