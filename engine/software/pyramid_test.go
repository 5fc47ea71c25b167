package software

import "testing"

func TestBuildPyramid(t *testing.T) {
	tests := []struct {
		name       string
		h, w       int
		wantLevels int
	}{
		{"64x64", 64, 64, 3},
		{"64x48", 64, 48, 2},
		{"too small to halve", 20, 20, 1},
		{"16x16", 16, 16, 1},
		{"tall and narrow", 256, 17, 1},
		{"deep", 2048, 2048, maxPyramidLevels},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels := buildPyramid(make([]float64, tt.h*tt.w), tt.h, tt.w)
			if len(levels) != tt.wantLevels {
				t.Fatalf("got %d levels, want %d", len(levels), tt.wantLevels)
			}
			if levels[0].h != tt.h || levels[0].w != tt.w {
				t.Errorf("level 0 is %dx%d, want full resolution", levels[0].h, levels[0].w)
			}
			for i := 1; i < len(levels); i++ {
				if levels[i].h != levels[i-1].h/2 || levels[i].w != levels[i-1].w/2 {
					t.Errorf("level %d is %dx%d, want half of level %d", i, levels[i].h, levels[i].w, i-1)
				}
			}
		})
	}
}

func TestDownsampleBoxAverage(t *testing.T) {
	l := level{
		pix: []float64{
			1, 3, 5, 7,
			5, 7, 9, 11,
			2, 4, 0, 0,
			6, 8, 0, 4,
		},
		h: 4, w: 4,
	}
	got := downsample(l)
	want := []float64{4, 8, 5, 1}
	if got.h != 2 || got.w != 2 {
		t.Fatalf("downsampled to %dx%d, want 2x2", got.h, got.w)
	}
	for i := range want {
		if got.pix[i] != want[i] {
			t.Errorf("pix[%d] = %g, want %g", i, got.pix[i], want[i])
		}
	}
}

func TestDownsampleOddEdge(t *testing.T) {
	// A 5x5 level halves to 2x2, dropping the last row and column.
	l := level{pix: make([]float64, 25), h: 5, w: 5}
	for i := range l.pix {
		l.pix[i] = 1
	}
	got := downsample(l)
	if got.h != 2 || got.w != 2 {
		t.Fatalf("downsampled to %dx%d, want 2x2", got.h, got.w)
	}
	for i, v := range got.pix {
		if v != 1 {
			t.Errorf("pix[%d] = %g, want 1", i, v)
		}
	}
}
