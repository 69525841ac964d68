// Package server provides the MCP server context, session upkeep, and
// operational HTTP endpoints for the tickdone application.
//
// # Key Components
//
// ServerContext holds the shared TickTick client plus the optional metrics
// recorder and audit logger. All tools reach the API through it.
//
// SessionKeeper keeps the TickTick web session alive for long-running
// servers by verifying it periodically and re-signing-on with the stored
// credentials when it expires. Accounts with two-factor auth cannot be
// renewed unattended; the keeper surfaces that for the operator instead.
//
// HealthChecker serves Kubernetes-style probes (/healthz, /readyz,
// /healthz/detailed). Readiness includes the session state, since an
// expired session makes every tool call fail.
//
// MetricsServer exposes Prometheus metrics on a dedicated port, isolated
// from the MCP transport.
package server
