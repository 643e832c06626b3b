package util

const (
	lcgMul = 9301
	lcgInc = 49297
	lcgMod = 233280
)

// LCG is the linear-congruential generator behind every procedural layout and
// roster. Identical seeds produce identical sequences on every platform.
type LCG struct {
	seed int64
}

func NewLCG(seed int64) *LCG {
	s := seed % lcgMod
	if s < 0 {
		s += lcgMod
	}
	return &LCG{seed: s}
}

// DeriveSeed mixes a run seed with a floor and room index so that each room
// draws from its own stream.
func DeriveSeed(seed int64, floor, room int) int64 {
	return seed + int64(floor)*7919 + int64(room)*104729
}

// Next returns a value in [0, 1).
func (g *LCG) Next() float64 {
	g.seed = (g.seed*lcgMul + lcgInc) % lcgMod
	return float64(g.seed) / lcgMod
}

// NextInt returns a value in [min, max], both inclusive.
func (g *LCG) NextInt(min, max int) int {
	if max <= min {
		return min
	}
	return min + int(g.Next()*float64(max-min+1))
}

func (g *LCG) Chance(p float64) bool {
	return g.Next() < p
}

// Shuffle permutes list in place (Fisher-Yates).
func Shuffle[T any](g *LCG, list []T) {
	for i := len(list) - 1; i > 0; i-- {
		j := int(g.Next() * float64(i+1))
		list[i], list[j] = list[j], list[i]
	}
}
