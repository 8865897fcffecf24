package detect

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"

	"github.com/DoyleJ11/tft-coach-backend/internal/state"
	"go.uber.org/zap"
)

// ObjectDetector asks the learned-detection sidecar (the trained model runs
// out of process) to locate units in the board and bench zones. Unit
// positions vary continuously, which is exactly what the fixed-position
// matchers cannot handle, so this capability is authoritative for unit
// identity and location.
type ObjectDetector struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewObjectDetector(baseURL string, client *http.Client, log *zap.Logger) *ObjectDetector {
	if client == nil {
		client = http.DefaultClient
	}
	return &ObjectDetector{baseURL: baseURL, client: client, log: log}
}

func (d *ObjectDetector) Capability() Capability { return CapabilityObject }

type detectRequest struct {
	Zone     string `json:"zone"`
	ImagePNG string `json:"image_png"` // base64
}

type detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	// Box center, normalized to the zone crop.
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
}

type detectResponse struct {
	Detections []detection `json:"detections"`
}

func (d *ObjectDetector) Scan(ctx context.Context, frame Frame) ([]Candidate, error) {
	var out []Candidate

	if board, ok := frame.Region(ZoneBoard); ok {
		dets, err := d.infer(ctx, ZoneBoard, board)
		if err != nil {
			return nil, err
		}
		for _, det := range dets {
			hex := boardHexAt(det.CX, det.CY)
			out = append(out, Candidate{
				Kind:       KindUnit,
				Key:        det.Label,
				Hex:        &hex,
				Confidence: det.Confidence,
			})
		}
	}

	if bench, ok := frame.Region(ZoneBench); ok {
		dets, err := d.infer(ctx, ZoneBench, bench)
		if err != nil {
			return nil, err
		}
		for _, det := range dets {
			slot := benchSlotAt(det.CX)
			out = append(out, Candidate{
				Kind:       KindUnit,
				Key:        det.Label,
				Bench:      &slot,
				Confidence: det.Confidence,
			})
		}
	}
	return out, nil
}

func (d *ObjectDetector) infer(ctx context.Context, zone string, img image.Image) ([]detection, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode %s zone: %w", zone, err)
	}
	body, err := json.Marshal(detectRequest{
		Zone:     zone,
		ImagePNG: base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/detect", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sidecar: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sidecar: status %d", resp.StatusCode)
	}

	var dr detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("sidecar response: %w", err)
	}
	return dr.Detections, nil
}

// boardHexAt snaps a normalized box center onto the hex grid. Row 0 is the
// bottom row (closest to the player); odd rows are offset half a hex but the
// uniform division is close enough for snapping centers.
func boardHexAt(cx, cy float64) state.Hex {
	col := clampIdx(int(cx*BoardCols), BoardCols)
	row := clampIdx(BoardRows-1-int(cy*BoardRows), BoardRows)
	return state.Hex{Row: row, Col: col}
}

func benchSlotAt(cx float64) int {
	return clampIdx(int(cx*BenchSlots), BenchSlots)
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
