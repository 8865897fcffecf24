package types

// Client -> Server (websocket)
// Analyze:
//   mode: "fast" | "full" (default "full")
//
// Server -> Client
// CycleResult:
//   cycle: see snapshot.go
//
// Error:
//   error: string
//
// REST surface (same JSON shapes):
//   POST /analyze?mode=fast|full  -> CycleResult
//   POST /composition {composition: [key]} -> 204 (declare build-around keys)
//   GET  /status                  -> StatusView (capabilities + discard counters)
//   GET  /latest                  -> CycleResult
//   GET  /history?limit=N         -> [CycleResult]
//   GET  /healthz                 -> 200
//   GET  /ws                      -> websocket upgrade
