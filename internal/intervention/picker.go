package intervention

import "math/rand/v2"

// Picker selects one message from a set of canned templates. Generators take
// a Picker instead of calling rand directly so tests can pin the choice.
type Picker interface {
	Pick(messages []string) string
}

// RandPicker picks uniformly at random.
type RandPicker struct {
	rng *rand.Rand
}

// NewRandPicker creates a picker with its own PCG source. A zero seed pair
// is fine; distinct generators just share the same stream shape.
func NewRandPicker(seed uint64) *RandPicker {
	return &RandPicker{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (p *RandPicker) Pick(messages []string) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[p.rng.IntN(len(messages))]
}

// FixedPicker always picks the message at Index (clamped to range).
// Used in tests to make message selection deterministic.
type FixedPicker struct {
	Index int
}

func (p FixedPicker) Pick(messages []string) string {
	if len(messages) == 0 {
		return ""
	}
	i := p.Index
	if i < 0 || i >= len(messages) {
		i = 0
	}
	return messages[i]
}
