package pngio

// filterRow writes the scanline for cur under filter type ft into dst:
// the filter byte followed by len(cur) filtered bytes. prev is the
// unfiltered previous row, all zero for the first row.
func filterRow(dst []byte, ft byte, cur, prev []byte, bpp int) {
	dst[0] = ft
	out := dst[1:]
	for i := range cur {
		var left, up, upperLeft byte
		if i >= bpp {
			left = cur[i-bpp]
			upperLeft = prev[i-bpp]
		}
		up = prev[i]

		var predictor byte
		switch ft {
		case ftSub:
			predictor = left
		case ftUp:
			predictor = up
		case ftAverage:
			predictor = byte((int(left) + int(up)) / 2)
		case ftPaeth:
			predictor = paethPredictor(left, up, upperLeft)
		}
		out[i] = cur[i] - predictor
	}
}

// unfilter reverses filter type ft in place on cdat, given the
// unfiltered previous row pdat.
func unfilter(ft byte, cdat, pdat []byte, bpp int) error {
	switch ft {
	case ftNone:
		// No-op.
	case ftSub:
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += cdat[i-bpp]
		}
	case ftUp:
		for i, p := range pdat {
			cdat[i] += p
		}
	case ftAverage:
		for i := 0; i < bpp && i < len(cdat); i++ {
			cdat[i] += pdat[i] / 2
		}
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += uint8((int(cdat[i-bpp]) + int(pdat[i])) / 2)
		}
	case ftPaeth:
		for i := range cdat {
			var left, upperLeft byte
			if i >= bpp {
				left = cdat[i-bpp]
				upperLeft = pdat[i-bpp]
			}
			cdat[i] += paethPredictor(left, pdat[i], upperLeft)
		}
	default:
		return FormatError("bad filter type")
	}
	return nil
}

// paethPredictor implements the Paeth prediction algorithm
func paethPredictor(a, b, c byte) byte {
	// a = left, b = above, c = upper left
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))

	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
