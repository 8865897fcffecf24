package detect

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// Shop cards and inventory items sit at fixed positions with stable artwork,
// so plain template matching against reference thumbnails beats anything
// learned: IconDetector is authoritative for those identities.
type IconDetector struct {
	refs map[string]*image.NRGBA // key -> thumbnail
	log  *zap.Logger
}

const iconThumbSize = 32

// Matches scoring below this similarity are not worth emitting at all; the
// fusion confidence floor does the real gatekeeping.
const iconMinSimilarity = 0.35

// NewIconDetector loads reference thumbnails from dir. Each file is named
// "<catalog key>.png"; unreadable files are skipped with a warning so one bad
// asset cannot take the whole capability down.
func NewIconDetector(dir string, log *zap.Logger) (*IconDetector, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}
	d := &IconDetector{refs: make(map[string]*image.NRGBA), log: log}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		img, err := imaging.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Warn("skipping unreadable template", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		key := strings.TrimSuffix(e.Name(), ".png")
		d.refs[key] = thumbnail(img)
	}
	if len(d.refs) == 0 {
		return nil, fmt.Errorf("no templates in %s", dir)
	}
	return d, nil
}

func (d *IconDetector) Capability() Capability { return CapabilityIcon }

func (d *IconDetector) Scan(ctx context.Context, frame Frame) ([]Candidate, error) {
	var out []Candidate

	if shop, ok := frame.Region(ZoneShop); ok {
		for slot, crop := range splitHorizontal(shop, ShopSlots) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			key, sim := d.bestMatch(crop)
			if key == "" {
				continue
			}
			slot := slot
			out = append(out, Candidate{
				Kind:       KindShopOffer,
				Key:        key,
				ShopSlot:   &slot,
				Confidence: sim,
			})
		}
	}

	if tray, ok := frame.Region(ZoneItems); ok {
		for _, crop := range splitHorizontal(tray, ItemSlots) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			key, sim := d.bestMatch(crop)
			if key == "" {
				continue
			}
			out = append(out, Candidate{Kind: KindItem, Key: key, Confidence: sim})
		}
	}
	return out, nil
}

// bestMatch returns the reference key most similar to the crop, or "" when
// nothing clears the minimum (an empty slot).
func (d *IconDetector) bestMatch(crop image.Image) (string, float64) {
	thumb := thumbnail(crop)
	bestKey, bestSim := "", 0.0
	// Deterministic iteration keeps scan output stable for equal frames.
	keys := make([]string, 0, len(d.refs))
	for k := range d.refs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if sim := similarity(thumb, d.refs[k]); sim > bestSim {
			bestKey, bestSim = k, sim
		}
	}
	if bestSim < iconMinSimilarity {
		return "", 0
	}
	return bestKey, bestSim
}

// thumbnail normalizes any crop to a small fixed-size NRGBA for comparison.
func thumbnail(img image.Image) *image.NRGBA {
	resized := transform.Resize(img, iconThumbSize, iconThumbSize, transform.Linear)
	return imaging.Clone(resized)
}

// similarity is 1 minus the normalized per-channel RMSE of two equal-size
// thumbnails: 1.0 for identical pixels, approaching 0 for unrelated art.
func similarity(a, b *image.NRGBA) float64 {
	var sum float64
	n := 0
	for i := 0; i+3 < len(a.Pix) && i+3 < len(b.Pix); i += 4 {
		for c := 0; c < 3; c++ { // ignore alpha
			diff := float64(a.Pix[i+c]) - float64(b.Pix[i+c])
			sum += diff * diff
			n++
		}
	}
	if n == 0 {
		return 0
	}
	rmse := math.Sqrt(sum / float64(n))
	return 1 - rmse/255
}

// splitHorizontal cuts a strip image into count equal-width crops.
func splitHorizontal(img image.Image, count int) []image.Image {
	b := img.Bounds()
	w := b.Dx() / count
	crops := make([]image.Image, 0, count)
	for i := 0; i < count; i++ {
		r := image.Rect(b.Min.X+i*w, b.Min.Y, b.Min.X+(i+1)*w, b.Max.Y)
		crops = append(crops, imaging.Crop(img, r))
	}
	return crops
}
