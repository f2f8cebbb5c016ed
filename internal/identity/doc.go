// Package identity reads the ux0:id.dat identity file.
//
// id.dat is a list of whitespace separated KEY=VALUE tokens written by the
// system software. Six keys are known: MID, DIG, DID (the PSID), AID (the
// account id, stored with its byte pairs reversed), OID (the online id) and
// SVR (a firmware tag).
//
// The parser is tolerant: unknown tokens and tokens without a value produce a
// *ParseWarning and parsing continues with the next token. Key detection uses
// substring containment by default, which is how the console tooling has
// always matched keys; MatchPrefix restricts it to an exact prefix.
//
//	rec, warnings, err := identity.ParseFile("ux0/id.dat")
//	if errors.Is(err, identity.ErrResourceUnavailable) {
//	    // fields stay empty
//	}
//	for _, w := range warnings {
//	    logger.Warn("id.dat", "line", w.Line, "error", w)
//	}
package identity
