package identity

import (
	"fmt"
	"strings"
)

// Deobfuscate restores the account id from the AID value of id.dat.
//
// The stored value lists the hex byte pairs of the account id in reverse
// order. Deobfuscate walks the string backward two characters at a time and
// emits each pair in forward order, so "04030201" becomes "01020304".
// Odd-length input has no valid pairing and returns ErrMalformedToken.
func Deobfuscate(stored string) (string, error) {
	if len(stored)%2 != 0 {
		return "", fmt.Errorf("%w: odd length %d", ErrMalformedToken, len(stored))
	}

	var sb strings.Builder
	sb.Grow(len(stored))
	for i := len(stored); i >= 2; i -= 2 {
		sb.WriteString(stored[i-2 : i])
	}
	return sb.String(), nil
}

// Obfuscate converts an account id to its stored form.
// The pair reversal is its own inverse, so this is Deobfuscate under the
// name that reads correctly at call sites writing id.dat values.
func Obfuscate(accountID string) (string, error) {
	return Deobfuscate(accountID)
}
