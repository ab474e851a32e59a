// Package cmd contains the executable entry points.
//
//   - server: the canvas collaboration server (WebSocket gateway plus REST
//     surface).
//   - canvas-cli: a demo client for joining rooms, submitting strokes, and
//     watching the authoritative event stream through the replay engine.
package cmd
