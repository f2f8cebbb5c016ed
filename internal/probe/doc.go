// Package probe provides the kernel and registry readings psvident
// classifies.
//
// On hardware these readings come from system calls. Off the device they
// are replayed from a capture file, probes.yaml, written next to id.dat and
// system.dreg in a dump directory. Snapshot implements Prober from such a
// capture. Missing entries behave like probes that failed on the device.
package probe
