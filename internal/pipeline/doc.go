// Package pipeline runs the classification steps that turn a device dump
// into a DeviceReport.
//
// Each step reads one input (id.dat, system.dreg or the probe capture),
// fills its part of the report and records recoverable problems as
// diagnostics. Steps run in a fixed order because later steps read what
// earlier ones stored: the model step needs the MAC address source, the
// fingerprint step needs the identifiers.
//
// BatchProcessor runs one pipeline per dump directory with an errgroup
// concurrency limit.
package pipeline
