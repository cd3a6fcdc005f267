package domain

import (
	"fmt"
	"math"
	"sort"
)

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different length or with zero magnitude score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RankRecords orders records by cosine similarity to query, best first,
// and returns at most k of their chunk texts. Equal scores keep chunk order.
// A query whose dimension differs from a stored vector fails with
// ErrShapeMismatch.
func RankRecords(records []IndexedRecord, query []float32, k int) ([]string, error) {
	if k <= 0 || len(records) == 0 {
		return []string{}, nil
	}
	for _, r := range records {
		if len(r.Vector) != len(query) {
			return nil, fmt.Errorf("%w: query has %d dimensions, record %s has %d",
				ErrShapeMismatch, len(query), r.ID, len(r.Vector))
		}
	}

	type scored struct {
		record IndexedRecord
		score  float64
	}
	ranked := make([]scored, len(records))
	for i, r := range records {
		ranked[i] = scored{record: r, score: CosineSimilarity(query, r.Vector)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].record.ChunkIndex < ranked[j].record.ChunkIndex
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = ranked[i].record.Chunk
	}
	return out, nil
}
