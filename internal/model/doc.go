// Package model defines the core data structures used throughout psvident.
//
// This package contains the following main types:
//   - IdentityRecord: the six fields parsed from ux0:id.dat
//   - RegionCode: the region_no byte decoded from the system registry blob
//   - DeviceMode: the manufacturing/build mode (CEX, DEX, Tool, ...)
//   - HardwareModel: Vita Fat, Vita Slim or PlayStation TV
//   - DeviceReport: the aggregate handed to report writers
//
// The models carry no I/O. Readers in the identity, registry and probe
// packages produce raw values; the classify package turns them into the
// enums defined here.
package model
