package ctmc

// Sampler draws the time to the next event and which event fires.
type Sampler struct {
	src Source
	cdf []float64
}

func NewSampler(src Source, numEvents int) *Sampler {
	return &Sampler{src: src, cdf: make([]float64, numEvents)}
}

// Next consumes one uniform draw and then one exponential draw. ok is false,
// with nothing consumed, when the total rate is not positive: the chain is
// absorbed.
//
// The event is the smallest index i with u <= cdf[i]. Events with zero rate
// are never chosen. If rounding leaves u above the final cdf entry, the last
// event with a positive rate is chosen.
func (s *Sampler) Next(rates []float64) (dt float64, event int, ok bool) {
	sum := 0.0
	for _, r := range rates {
		sum += r
	}
	if !(sum > 0) {
		return 0, -1, false
	}

	u := s.src.Float64()
	dt = s.src.ExpFloat64() / sum

	acc := 0.0
	last := -1
	for i, r := range rates {
		acc += r
		s.cdf[i] = acc / sum
		if r <= 0 {
			continue
		}
		last = i
		if u <= s.cdf[i] {
			return dt, i, true
		}
	}
	return dt, last, true
}
