package detect

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestBoardHexSnapping(t *testing.T) {
	cases := []struct {
		cx, cy   float64
		row, col int
	}{
		{0.05, 0.95, 0, 0}, // bottom-left of the crop is row 0, col 0
		{0.95, 0.05, 3, 6}, // top-right is the far row
		{0.5, 0.5, 1, 3},   // center
		{1.0, 1.0, 0, 6},   // edge values clamp into range
		{-0.1, -0.1, 3, 0}, // out-of-range centers clamp too
	}
	for _, tc := range cases {
		hex := boardHexAt(tc.cx, tc.cy)
		if hex.Row != tc.row || hex.Col != tc.col {
			t.Errorf("boardHexAt(%f, %f) = %+v, want row %d col %d", tc.cx, tc.cy, hex, tc.row, tc.col)
		}
	}
}

func TestBenchSlotSnapping(t *testing.T) {
	if got := benchSlotAt(0.0); got != 0 {
		t.Errorf("left edge slot = %d", got)
	}
	if got := benchSlotAt(0.99); got != BenchSlots-1 {
		t.Errorf("right edge slot = %d", got)
	}
	if got := benchSlotAt(1.5); got != BenchSlots-1 {
		t.Errorf("overshoot must clamp, got %d", got)
	}
}

func TestObjectDetectorScan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req detectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		resp := detectResponse{}
		if req.Zone == ZoneBoard {
			resp.Detections = []detection{{Label: "garen", Confidence: 0.88, CX: 0.1, CY: 0.9}}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	d := NewObjectDetector(srv.URL, srv.Client(), zap.NewNop())
	frame := Frame{
		Captured: time.Now(),
		Regions: map[string]image.Image{
			ZoneBoard: image.NewNRGBA(image.Rect(0, 0, 70, 40)),
		},
	}

	cands, err := d.Scan(context.Background(), frame)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 1 {
		t.Fatalf("candidates = %+v, want one board unit", cands)
	}
	c := cands[0]
	if c.Kind != KindUnit || c.Key != "garen" || c.Hex == nil {
		t.Errorf("candidate = %+v", c)
	}
	if c.Hex.Row != 0 || c.Hex.Col != 0 {
		t.Errorf("hex = %+v, want bottom-left", c.Hex)
	}
	if c.Confidence != 0.88 {
		t.Errorf("confidence = %f", c.Confidence)
	}
}

func TestObjectDetectorSidecarDown(t *testing.T) {
	d := NewObjectDetector("http://127.0.0.1:1", nil, zap.NewNop())
	frame := Frame{
		Captured: time.Now(),
		Regions:  map[string]image.Image{ZoneBoard: image.NewNRGBA(image.Rect(0, 0, 7, 4))},
	}
	if _, err := d.Scan(context.Background(), frame); err == nil {
		t.Error("an unreachable sidecar must surface as a scan error")
	}
}
