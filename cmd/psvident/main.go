// Package main provides the entry point for the psvident CLI.
//
// psvident reads the files a PSVident dump leaves on a PS Vita memory card
// (id.dat, the system registry blob and a probe capture) and reports the
// console identity, region, manufacturing mode and hardware model.
//
// Usage:
//
//	psvident report [dump-dir...]
//	psvident token <stored-aid>
//
// See --help for all available options.
package main

// main is the entry point for psvident.
func main() {
	Execute()
}
