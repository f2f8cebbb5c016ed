// Package log provides slog loggers that mask device and account
// identifiers.
//
// A dump directory holds everything needed to tell one console from
// another: the IDPS, the PSID, the MAC address, the PSN account id and the
// login e-mail. SecureHandler masks attributes whose key names one of these
// or whose value looks like one, so logs can be shared without the dump.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Warn("skipped identity token", "line", 3, "psid", psid) // psid is masked
package log
