package segment

import (
	"fmt"
	"testing"
	"time"
)

// spans builds contiguous segments from boundary seconds.
func spans(bounds ...int) []Segment {
	var out []Segment
	for i := 0; i+1 < len(bounds); i++ {
		out = append(out, Segment{Start: seconds(bounds[i]), Duration: seconds(bounds[i+1] - bounds[i])})
	}
	return renumber(out)
}

func bounds(segs []Segment) string {
	out := []int{}
	for _, s := range segs {
		out = append(out, int(s.Start/time.Second))
	}
	if len(segs) > 0 {
		out = append(out, int(segs[len(segs)-1].End()/time.Second))
	}
	return fmt.Sprint(out)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		in    []Segment
		total int
		merge int
		want  string
	}{
		{"nothing to merge", spans(0, 10, 20, 30), 30, 5, "[0 10 20 30]"},
		{"short run split between neighbours", spans(0, 10, 12, 14, 40), 40, 5, "[0 12 40]"},
		{"long run becomes a segment", spans(0, 10, 13, 16, 40), 40, 5, "[0 10 16 40]"},
		{"short run at start joins first", spans(0, 2, 4, 30), 30, 5, "[0 30]"},
		{"short run at end joins last", spans(0, 20, 22, 24), 24, 5, "[0 24]"},
		{"long run at end stays", spans(0, 20, 23, 26), 26, 5, "[0 20 26]"},
		{"only short segments", spans(0, 2, 4), 4, 5, "[0 4]"},
		{"run of exactly the threshold stays", spans(0, 5, 20), 20, 5, "[0 5 20]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.in, seconds(tt.total), seconds(tt.merge))
			if b := bounds(got); b != tt.want {
				t.Errorf("expected %s, got %s", tt.want, b)
			}
			if err := Check(got, seconds(tt.total)); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestUniform(t *testing.T) {
	tests := []struct {
		total, n int
		want     string
	}{
		{30, 4, "[0 7 14 21 30]"},
		{30, 1, "[0 30]"},
		{30, 0, "[0 30]"},
		{3, 5, "[0 1 2 3]"},
		{60, 3, "[0 20 40 60]"},
	}
	for _, tt := range tests {
		got := Uniform(seconds(tt.total), tt.n)
		if b := bounds(got); b != tt.want {
			t.Errorf("Uniform(%d, %d) = %s, want %s", tt.total, tt.n, b, tt.want)
		}
		if err := Check(got, seconds(tt.total)); err != nil {
			t.Error(err)
		}
	}
}

func TestFromBoundaries(t *testing.T) {
	times := []time.Duration{
		20600 * time.Millisecond,
		400 * time.Millisecond,
		12300 * time.Millisecond,
		12900 * time.Millisecond,
		31 * time.Second,
	}
	got := FromBoundaries(times, 30*time.Second, time.Second)
	if b := bounds(got); b != "[0 12 21 30]" {
		t.Errorf("unexpected segmentation %s", b)
	}
	if err := Check(got, 30*time.Second); err != nil {
		t.Error(err)
	}

	if b := bounds(FromBoundaries(nil, 30*time.Second, time.Second)); b != "[0 30]" {
		t.Errorf("no cuts should give one segment, got %s", b)
	}
}

func TestCheck(t *testing.T) {
	if err := Check(spans(0, 5, 10), 10*time.Second); err != nil {
		t.Errorf("valid segmentation rejected: %v", err)
	}
	gap := []Segment{{Index: 1, Duration: 5 * time.Second}, {Index: 2, Start: 6 * time.Second, Duration: 4 * time.Second}}
	if Check(gap, 10*time.Second) == nil {
		t.Error("gap not detected")
	}
	if Check(spans(0, 5), 10*time.Second) == nil {
		t.Error("short coverage not detected")
	}
	if Check(nil, time.Second) == nil {
		t.Error("empty list not detected")
	}
}
