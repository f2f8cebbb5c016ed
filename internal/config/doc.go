// Package config holds the settings of a psvident run and loads them from
// the optional .psvident YAML file.
//
// Values are layered: NewConfig defaults, then the configuration file, then
// the command line flags the user actually set.
package config
