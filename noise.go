package wavsynth

import "math/rand/v2"

// pinkRows is the number of Voss-McCartney rows summed for pink noise.
const pinkRows = 16

const streamSalt = 0x9E3779B97F4A7C15

// uniformAt returns a uniform value in [-1, 1) that only depends on seed,
// stream and index, so noise can be addressed by sample index.
func uniformAt(seed, stream, index uint64) float64 {
	pcg := rand.NewPCG(seed^(stream*streamSalt), splitmix64(index))
	return float64(pcg.Uint64()>>11)/(1<<53)*2 - 1
}

func splitmix64(x uint64) uint64 {
	x += streamSalt
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB

	return x ^ (x >> 31)
}

func whiteNoiseAt(seed uint64, n int) float64 {
	return uniformAt(seed, 0, uint64(n))
}

// pinkNoiseAt is the Voss-McCartney generator: row k is redrawn every 2^k
// samples and the output is the mean of all rows.
func pinkNoiseAt(seed uint64, n int) float64 {
	var sum float64

	idx := uint64(n)
	for k := range pinkRows {
		sum += uniformAt(seed, uint64(k+1), idx>>k)
	}

	return sum / pinkRows
}
