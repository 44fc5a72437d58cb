// Package ideas provides a rewrite-rule engine for stepwise problem
// solving: rules transform terms, strategies say which rules may fire
// when, and derivations record the paths a solver can take.
//
// The core packages are rewrite, strategy, and derivation.  Package
// jterm supplies a JSON-shaped term domain, package ruleset loads
// rules and strategies from YAML, and the commands under cmd wrap the
// whole thing in a CLI, a WebSocket/HTTP service, and an MQTT client.
package ideas
