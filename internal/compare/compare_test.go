package compare

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/scenecut/internal/edge"
	"github.com/kikiluvv/scenecut/internal/frame"
)

// stripes draws vertical bars of the given period.
func stripes(t *testing.T, w, h, period int) *frame.Image {
	t.Helper()
	img, err := frame.New(w, h, frame.LayoutGray8)
	if err != nil {
		t.Fatalf("frame.New failed: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/period)%2 == 1 {
				img.Pix[y*img.Stride+x] = 220
			} else {
				img.Pix[y*img.Stride+x] = 30
			}
		}
	}
	return img
}

func flat(t *testing.T, w, h int, v byte) *frame.Image {
	t.Helper()
	img, err := frame.New(w, h, frame.LayoutGray8)
	if err != nil {
		t.Fatalf("frame.New failed: %v", err)
	}
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func newEdgeDiffer(t *testing.T) *EdgeDifferencer {
	t.Helper()
	d, err := NewEdgeDifferencer(edge.DefaultConfig(), 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEdgeDifferencer failed: %v", err)
	}
	return d
}

func TestDifferencers(t *testing.T) {
	differs := map[string]Differencer{
		"edges":     newEdgeDiffer(t),
		"luminance": NewLuminanceDifferencer(DefaultPixelTolerance, 0, zerolog.Nop()),
	}

	a := stripes(t, 96, 64, 8)
	b := stripes(t, 96, 64, 20)

	for name, d := range differs {
		t.Run(name, func(t *testing.T) {
			got, err := d.IsDifferent(nil, a, 0, 0.025)
			if err != nil || !got {
				t.Errorf("nil reference: expected different, got %v (%v)", got, err)
			}

			got, err = d.IsDifferent(a, a.Clone(), 1, 0.025)
			if err != nil || got {
				t.Errorf("identical content: expected same, got %v (%v)", got, err)
			}

			got, err = d.IsDifferent(a, b, 2, 0.025)
			if err != nil || !got {
				t.Errorf("new layout: expected different, got %v (%v)", got, err)
			}

			got, err = d.IsDifferent(a, stripes(t, 48, 64, 8), 3, 0.025)
			if err != nil || !got {
				t.Errorf("size change: expected different, got %v (%v)", got, err)
			}

			// everything may change at threshold 1
			got, err = d.IsDifferent(a, b, 4, 1)
			if err != nil || got {
				t.Errorf("threshold 1: expected same, got %v (%v)", got, err)
			}

			if _, err := d.IsDifferent(a, b, 5, 1.5); !errors.Is(err, ErrInvalidThreshold) {
				t.Errorf("expected ErrInvalidThreshold, got %v", err)
			}
		})
	}
}

func TestLuminanceTolerance(t *testing.T) {
	d := NewLuminanceDifferencer(DefaultPixelTolerance, 0, zerolog.Nop())

	got, err := d.IsDifferent(flat(t, 32, 32, 100), flat(t, 32, 32, 110), 0, 0)
	if err != nil || got {
		t.Errorf("drift within tolerance: expected same, got %v (%v)", got, err)
	}
	got, err = d.IsDifferent(flat(t, 32, 32, 100), flat(t, 32, 32, 113), 0, 0.5)
	if err != nil || !got {
		t.Errorf("drift beyond tolerance: expected different, got %v (%v)", got, err)
	}
}

func TestEdgeDifferencerIgnoresBrightness(t *testing.T) {
	// Flat frames have no edges, so a pure brightness change is not a cut.
	d := newEdgeDiffer(t)
	got, err := d.IsDifferent(flat(t, 64, 64, 40), flat(t, 64, 64, 200), 0, 0.01)
	if err != nil || got {
		t.Errorf("expected same, got %v (%v)", got, err)
	}
}

func TestEdgeDifferencerCache(t *testing.T) {
	d := newEdgeDiffer(t)
	ref := stripes(t, 64, 64, 8)

	for i := 0; i < 3; i++ {
		if _, err := d.IsDifferent(ref, stripes(t, 64, 64, 8), i, 0.025); err != nil {
			t.Fatalf("IsDifferent failed: %v", err)
		}
	}

	found := false
	for _, c := range d.cache {
		if c.src == ref {
			found = true
		}
	}
	if !found {
		t.Error("reference frame should stay cached while it is reused")
	}
}

func TestEdgeDifferencerDownscales(t *testing.T) {
	d, err := NewEdgeDifferencer(edge.DefaultConfig(), 64, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEdgeDifferencer failed: %v", err)
	}
	a := stripes(t, 256, 128, 32)
	if _, err := d.IsDifferent(a, a.Clone(), 0, 0.025); err != nil {
		t.Fatalf("IsDifferent failed: %v", err)
	}
	m, err := d.edges(a)
	if err != nil {
		t.Fatalf("edges failed: %v", err)
	}
	if m.Width != 64 || m.Height != 32 {
		t.Errorf("expected 64x32 analysis map, got %dx%d", m.Width, m.Height)
	}
}

func TestFunc(t *testing.T) {
	calls := 0
	var d Differencer = Func(func(_, _ *frame.Image, _ int, _ float64) (bool, error) {
		calls++
		return true, nil
	})
	if ok, _ := d.IsDifferent(nil, nil, 0, 0); !ok || calls != 1 {
		t.Errorf("Func adapter not invoked")
	}
}

func TestInvalidDetectorConfig(t *testing.T) {
	cfg := edge.DefaultConfig()
	cfg.KernelWidth = 0
	if _, err := NewEdgeDifferencer(cfg, 0, zerolog.Nop()); !errors.Is(err, edge.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}
