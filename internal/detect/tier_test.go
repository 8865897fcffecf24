package detect

import (
	"image/color"
	"testing"
)

func TestClassifyBadge(t *testing.T) {
	cases := []struct {
		name     string
		c        color.NRGBA
		wantStar int
		wantOK   bool
	}{
		{"bronze", color.NRGBA{R: 184, G: 115, B: 51, A: 255}, 1, true},
		{"silver", color.NRGBA{R: 192, G: 192, B: 199, A: 255}, 2, true},
		{"gold", color.NRGBA{R: 250, G: 209, B: 64, A: 255}, 3, true},
		{"empty cell", color.NRGBA{R: 20, G: 28, B: 35, A: 255}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			star, conf, ok := classifyBadge(uniform(16, 4, tc.c))
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v (star=%d conf=%f)", ok, tc.wantOK, star, conf)
			}
			if !ok {
				return
			}
			if star != tc.wantStar {
				t.Errorf("star = %d, want %d", star, tc.wantStar)
			}
			if conf <= 0 || conf > 1 {
				t.Errorf("confidence %f out of (0,1]", conf)
			}
		})
	}
}

// A perfect match on the reference shade should outscore a borderline one.
func TestClassifyBadgeConfidenceOrdering(t *testing.T) {
	_, exact, ok := classifyBadge(uniform(8, 8, color.NRGBA{R: 250, G: 209, B: 64, A: 255}))
	if !ok {
		t.Fatal("exact gold shade not classified")
	}
	_, offish, ok := classifyBadge(uniform(8, 8, color.NRGBA{R: 220, G: 190, B: 110, A: 255}))
	if !ok {
		t.Skip("off-gold shade fell outside the cutoff on this reference set")
	}
	if offish >= exact {
		t.Errorf("off shade confidence %f >= exact %f", offish, exact)
	}
}
