// Package classify turns raw probe results into the model, mode and
// firmware values shown in a device report.
//
// Every function here is pure: probes are passed in as values or as a
// callback, and failures of the optional debug probe are part of the
// decision rather than errors.
package classify
