// Package stream pushes status cache snapshots to websocket clients so the
// web UI gets live updates without polling /api/status.
package stream
