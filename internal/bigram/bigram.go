// Package bigram implements the online character-bigram entropy model
// used to decide low-probability split points inside identifiers.
package bigram

import "math"

// evidenceFloor is the minimum outgoing-edge total before a transition
// is trusted enough to produce a nonzero surprise.
const evidenceFloor = 5

// smoothing is the additive smoothing constant applied to the numerator
// of the conditional probability estimate; the denominator adds 1.0.
const smoothing = 0.1

// Model is a 256x256 table of byte-pair transition counts plus the
// per-first-byte totals. Zero value is ready to use.
type Model struct {
	counts [256][256]uint32
	totals [256]uint32
}

// New returns an empty model.
func New() *Model {
	return &Model{}
}

// Train increments the transition counts for every adjacent byte pair
// in text. Inputs shorter than 2 bytes are a no-op.
func (m *Model) Train(text []byte) {
	for i := 0; i+1 < len(text); i++ {
		a, b := text[i], text[i+1]
		m.counts[a][b]++
		m.totals[a]++
	}
}

// PreTrain runs n passes of Train over text. Used to seed the model
// before the first real file is processed, so that the earliest
// identifiers don't trigger spurious entropy splits against an empty
// table.
func (m *Model) PreTrain(text []byte, passes int) {
	for i := 0; i < passes; i++ {
		m.Train(text)
	}
}

// Surprise returns the self-information -log2(p) of the transition
// a->b under additive smoothing, or 0 if fewer than evidenceFloor
// outgoing transitions from a have been observed. The name follows the
// spec's Rényi-2 terminology; the computed quantity is plain Shannon
// self-information.
func (m *Model) Surprise(a, b byte) float32 {
	total := m.totals[a]
	if total < evidenceFloor {
		return 0.0
	}
	p := (float64(m.counts[a][b]) + smoothing) / (float64(total) + 1.0)
	return float32(-math.Log2(p))
}
