// Package registry decodes values from the system registry.
//
// The region number is not reachable through the registry API on retail
// firmware, so it is read directly from the vd0:registry/system.dreg blob.
// The blob format is undocumented; the byte offset and the decode table are
// captured in a versioned Schema so a future firmware layout can be added as
// a second schema without touching callers.
//
// The package also converts the integer settings read through the registry
// API (button assignment, system language) into display values.
package registry
