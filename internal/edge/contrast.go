package edge

// equalize spreads the luminance histogram over the full 0-255 range.
func equalize(luma []uint8) []uint8 {
	var hist [256]int
	for _, v := range luma {
		hist[v]++
	}

	var remap [256]uint8
	n := len(luma)
	sum, j := 0, 0
	for i := 0; i < len(hist); i++ {
		sum += hist[i]
		target := sum * 255 / n
		for k := j + 1; k <= target; k++ {
			remap[k] = uint8(i)
		}
		j = target
	}

	out := make([]uint8, n)
	for i, v := range luma {
		out[i] = remap[v]
	}
	return out
}
