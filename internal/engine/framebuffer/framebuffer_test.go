package framebuffer

import "testing"

func TestAspect(t *testing.T) {
	tests := []struct {
		w, h int32
		want float32
	}{
		{1280, 720, 1280.0 / 720.0},
		{100, 100, 1},
		{100, 0, 1},
		{0, 0, 1},
	}
	for _, tt := range tests {
		if got := Aspect(tt.w, tt.h); got != tt.want {
			t.Errorf("Aspect(%d, %d): expected %f, got %f", tt.w, tt.h, tt.want, got)
		}
	}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h         int32
		wantW, wantH int32
	}{
		{640, 480, 640, 480},
		{0, 480, 1, 480},
		{-5, -5, 1, 1},
	}
	for _, tt := range tests {
		w, h := fitSize(tt.w, tt.h)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitSize(%d, %d): expected %dx%d, got %dx%d", tt.w, tt.h, tt.wantW, tt.wantH, w, h)
		}
	}
}
