package skills

import (
	"strings"

	"greenjobs/internal/pkg/vector"
	"greenjobs/internal/taxonomy"
)

// topicFeatures computes the two green-topic classifier features for one
// surface: the similarity to the nearest topic embedding and the number of
// topics appearing verbatim inside the surface.
func topicFeatures(surface string, vec32 []float32, store *taxonomy.Store) (sim float64, count int) {
	for _, tv := range store.TopicVectors() {
		if s := vector.Cosine(vec32, tv.Vec); s > sim {
			sim = s
		}
	}

	lower := strings.ToLower(surface)
	for _, topic := range store.GreenTopics() {
		if strings.Contains(lower, topic) {
			count++
		}
	}
	return sim, count
}
