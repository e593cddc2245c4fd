// Package core defines the shared contracts of the aigate dispatch
// service: the Agent interface, the request/response envelope, result
// mappings and the error kinds surfaced to callers.
//
// Core goals:
//   - Agents are stateless workers; configuration is fixed at construction
//   - Envelopes are plain data, serialized unchanged at the HTTP edge
//   - Errors carry enough structure for the edge to pick a status code
//
// Higher layers (registry, dispatch, router, pipeline) depend only on this
// package so they remain decoupled from concrete agent implementations and
// model backends.
package core
