package oto

import "math"

// FloatBufferTo16BitLE converts float samples to 16-bit little-endian PCM,
// appending to out. Values outside [-1, 1] are clipped.
func FloatBufferTo16BitLE(buff []float32, out []byte) []byte {
	for _, v := range buff {
		var uv int16
		if v < -1.0 {
			uv = -math.MaxInt16
		} else if v > 1.0 {
			uv = math.MaxInt16
		} else {
			uv = int16(v * math.MaxInt16)
		}
		out = append(out, byte(uv&255), byte(uv>>8))
	}
	return out
}
