package wavsynth

import (
	"math"
	"time"
)

func nullTermStr(b []byte) string {
	return string(b[:clen(b)])
}

func clen(num []byte) int {
	for i := range num {
		if num[i] == 0 {
			return i
		}
	}

	return len(num)
}

// maxFrames is the longest data chunk at one byte per frame.
const maxFrames = maxDataBytes

// frameCount is the number of sample frames for a duration, rounded to the
// nearest frame. Counts beyond maxFrames saturate at maxFrames+1 and
// meaningless inputs give 0.
func frameCount(durationSeconds float64, sampleRate int) int {
	n := math.Round(durationSeconds * float64(sampleRate))

	switch {
	case !(n >= 0):
		return 0
	case n > maxFrames:
		return maxFrames + 1
	}

	return int(n)
}

func framesDuration(frames, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}

	return time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
}

func frac(x float64) float64 {
	return x - math.Floor(x)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func bytesPerSample(bitDepth int) int {
	return (bitDepth-1)/8 + 1
}

// maxCode returns 2^(bits-1) - 1, the positive full-scale integer code.
func maxCode(bitDepth int) int64 {
	return int64(1)<<(bitDepth-1) - 1
}

// minCode returns -2^(bits-1), the most negative integer code.
func minCode(bitDepth int) int64 {
	return -(int64(1) << (bitDepth - 1))
}
