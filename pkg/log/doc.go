// Package log wraps the standard library logger with named, per-service
// loggers used across adminhub.
//
// Each pipeline stage asks for its own logger:
//
//	l := log.ForService("fetch")
//	l.Infof("sites.json changed (%s)", token)
//	l.Debugf("raw body: %s", body) // only with debug enabled for "fetch"
//
// Lines are prefixed with the level and a "[name>]" marker. Debug output can
// be enabled for everything (SetGlobalDebug) or for a subset of services
// (EnableDebugFor, EnableDebugList). SetOutput reroutes every logger, which
// tests use to capture output in a bytes.Buffer.
//
// The package name collides with the standard library; alias one of them
// when both are needed.
package log
