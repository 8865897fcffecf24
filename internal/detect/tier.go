package detect

import (
	"context"
	"image"

	"github.com/DoyleJ11/tft-coach-backend/internal/state"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
)

// Star badges render in fixed tier colors above each unit. TierDetector
// samples the badge strip of every cell and classifies its dominant color;
// it never identifies units, it only refines the star level of whatever
// identity won the cell during fusion.
type TierDetector struct {
	log *zap.Logger
}

func NewTierDetector(log *zap.Logger) *TierDetector {
	return &TierDetector{log: log}
}

func (d *TierDetector) Capability() Capability { return CapabilityTier }

// Reference badge shades. Bronze for 1-star, silver for 2, gold for 3.
var starShades = []struct {
	star  int
	shade colorful.Color
}{
	{1, colorful.Color{R: 0.72, G: 0.45, B: 0.20}},
	{2, colorful.Color{R: 0.75, G: 0.75, B: 0.78}},
	{3, colorful.Color{R: 0.98, G: 0.82, B: 0.25}},
}

// Badge strips further than this in CIE-Lab space from every reference shade
// are treated as "no badge" (empty cell or occluded badge).
const maxShadeDistance = 0.28

func (d *TierDetector) Scan(ctx context.Context, frame Frame) ([]Candidate, error) {
	var out []Candidate

	if board, ok := frame.Region(ZoneBoard); ok {
		b := board.Bounds()
		cellW, cellH := b.Dx()/BoardCols, b.Dy()/BoardRows
		for row := 0; row < BoardRows; row++ {
			for col := 0; col < BoardCols; col++ {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				// Row 0 is the bottom of the crop.
				y := b.Min.Y + (BoardRows-1-row)*cellH
				badge := imaging.Crop(board, image.Rect(
					b.Min.X+col*cellW, y,
					b.Min.X+(col+1)*cellW, y+cellH/5))
				if star, conf, ok := classifyBadge(badge); ok {
					hex := state.Hex{Row: row, Col: col}
					out = append(out, Candidate{
						Kind:       KindStar,
						Star:       star,
						Hex:        &hex,
						Confidence: conf,
					})
				}
			}
		}
	}

	if bench, ok := frame.Region(ZoneBench); ok {
		b := bench.Bounds()
		cellW := b.Dx() / BenchSlots
		for slot := 0; slot < BenchSlots; slot++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			badge := imaging.Crop(bench, image.Rect(
				b.Min.X+slot*cellW, b.Min.Y,
				b.Min.X+(slot+1)*cellW, b.Min.Y+b.Dy()/5))
			if star, conf, ok := classifyBadge(badge); ok {
				slot := slot
				out = append(out, Candidate{
					Kind:       KindStar,
					Star:       star,
					Bench:      &slot,
					Confidence: conf,
				})
			}
		}
	}
	return out, nil
}

// classifyBadge averages the strip and picks the nearest reference shade.
// Confidence falls off linearly with Lab distance.
func classifyBadge(badge image.Image) (star int, confidence float64, ok bool) {
	avg, ok := averageColor(badge)
	if !ok {
		return 0, 0, false
	}
	bestStar, bestDist := 0, maxShadeDistance
	for _, ref := range starShades {
		if dist := avg.DistanceLab(ref.shade); dist < bestDist {
			bestStar, bestDist = ref.star, dist
		}
	}
	if bestStar == 0 {
		return 0, 0, false
	}
	return bestStar, 1 - bestDist/maxShadeDistance, true
}

func averageColor(img image.Image) (colorful.Color, bool) {
	b := img.Bounds()
	if b.Empty() {
		return colorful.Color{}, false
	}
	var r, g, bl float64
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, cok := colorful.MakeColor(img.At(x, y))
			if !cok {
				continue
			}
			r += c.R
			g += c.G
			bl += c.B
			n++
		}
	}
	if n == 0 {
		return colorful.Color{}, false
	}
	return colorful.Color{R: r / float64(n), G: g / float64(n), B: bl / float64(n)}, true
}
