package detect

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"regexp"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// Confidence assigned to a cleanly parsed HUD value. The HUD layout is fixed
// and the digits are rendered, not photographed, so a clean parse is near
// certain; a parse that needed salvage gets the degraded score.
const (
	ocrCleanConfidence    = 0.95
	ocrSalvagedConfidence = 0.60
)

var (
	stagePattern = regexp.MustCompile(`([1-9])-([0-9]{1,2})`)
	digitPattern = regexp.MustCompile(`[0-9]+`)
)

// TextDetector reads the numeric HUD zones and the stage label with
// Tesseract. It is authoritative for those fields: the layout never moves and
// the values are precise.
type TextDetector struct {
	log *zap.Logger
}

func NewTextDetector(log *zap.Logger) *TextDetector {
	return &TextDetector{log: log}
}

func (d *TextDetector) Capability() Capability { return CapabilityText }

func (d *TextDetector) Scan(ctx context.Context, frame Frame) ([]Candidate, error) {
	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetWhitelist("0123456789-/"); err != nil {
		return nil, fmt.Errorf("ocr whitelist: %w", err)
	}

	var out []Candidate
	for _, zone := range []struct {
		name  string
		field Field
	}{
		{ZoneGold, FieldGold},
		{ZoneHealth, FieldHealth},
		{ZoneLevel, FieldLevel},
		{ZoneXP, FieldXP},
		{ZoneStage, FieldStage},
	} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, ok := frame.Region(zone.name)
		if !ok {
			continue
		}
		text, err := d.readZone(client, img)
		if err != nil {
			d.log.Debug("ocr zone failed", zap.String("zone", zone.name), zap.Error(err))
			continue
		}
		if c, ok := parseHUD(zone.field, text); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (d *TextDetector) readZone(client *gosseract.Client, img image.Image) (string, error) {
	// Small HUD crops OCR poorly at native size; grayscale and a 2x upscale
	// keep Tesseract honest.
	prepped := imaging.Resize(imaging.Grayscale(img),
		img.Bounds().Dx()*2, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepped); err != nil {
		return "", fmt.Errorf("encode zone: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	return client.Text()
}

// parseHUD turns raw OCR text into a HUD candidate. Stage keeps its "N-M"
// text; the rest parse to ints. Health and xp render as "cur/max"; the
// leading number is the current value.
func parseHUD(field Field, text string) (Candidate, bool) {
	if field == FieldStage {
		m := stagePattern.FindString(text)
		if m == "" {
			return Candidate{}, false
		}
		conf := ocrCleanConfidence
		if m != text {
			conf = ocrSalvagedConfidence
		}
		return Candidate{Kind: KindHUD, Field: field, Text: m, Confidence: conf}, true
	}

	m := digitPattern.FindString(text)
	if m == "" {
		return Candidate{}, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return Candidate{}, false
	}
	conf := ocrCleanConfidence
	if m != text {
		conf = ocrSalvagedConfidence
	}
	return Candidate{Kind: KindHUD, Field: field, Value: v, Confidence: conf}, true
}
