// Package server exposes the console gate over HTTP.
//
// # Endpoints
//
//   - GET  /healthz              liveness
//   - GET  /api/status           initialization snapshot and selected view
//   - POST /api/remount          restart the initialization sequence
//   - POST /api/dismiss          hide the initialization error banner
//   - GET  /app/*path            resolve a console path behind the gate
//   - GET  /api/agents/:agentId  agent details model
//   - GET  /metrics              Prometheus exposition
//
// Gate responses carry the selected view. A loading view is 503 with
// Retry-After, a permission view is 403, and an initialization error is
// served with 200 alongside the resolved section so the console stays
// usable.
package server
