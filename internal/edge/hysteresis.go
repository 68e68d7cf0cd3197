package edge

// tracer runs hysteresis over a suppressed magnitude buffer.
type tracer struct {
	width, height int
	mag           []int32
	low           int32
	visited       []bool
	// traced receives the magnitude of every pixel reached by a trace.
	traced []int32
}

func newTracer(mag []int32, width, height int, low int32) *tracer {
	return &tracer{
		width:   width,
		height:  height,
		mag:     mag,
		low:     low,
		visited: make([]bool, len(mag)),
		traced:  make([]int32, len(mag)),
	}
}

// run seeds a trace at every unvisited pixel at or above high, in row-major order.
func (t *tracer) run(high int32) {
	for i, m := range t.mag {
		if !t.visited[i] && m >= high {
			t.follow(i)
		}
	}
}

// follow walks a single path: mark the pixel, move to the first qualifying
// neighbour, repeat. Branches are never revisited from here; they only get
// picked up again if they carry their own seed.
func (t *tracer) follow(start int) {
	for cur := start; cur >= 0; cur = t.next(cur) {
		t.visited[cur] = true
		t.traced[cur] = t.mag[cur]
	}
}

// next returns the first unvisited 8-neighbour at or above the low threshold,
// scanning columns left to right and each column top to bottom, or -1.
func (t *tracer) next(i int) int {
	x1, y1 := i%t.width, i/t.width
	x0, x2 := max(x1-1, 0), min(x1+1, t.width-1)
	y0, y2 := max(y1-1, 0), min(y1+1, t.height-1)

	for x := x0; x <= x2; x++ {
		for y := y0; y <= y2; y++ {
			j := y*t.width + x
			if j != i && !t.visited[j] && t.mag[j] >= t.low {
				return j
			}
		}
	}
	return -1
}
