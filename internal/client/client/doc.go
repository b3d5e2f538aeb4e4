// Package client talks to the dailyword ScriptureService over gRPC.
//
// A Client holds one connection, attaches the configured access token to
// every call, applies a per-call timeout, and maps gRPC status codes to the
// sentinel errors below so callers can match them with errors.Is.
package client
