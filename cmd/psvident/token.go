package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/psvident/internal/identity"
)

// NewTokenCmd creates the token command.
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token [stored-aid]",
		Short: "Decode the account token stored in id.dat",
		Long: `Token converts the AID value of id.dat to the PSN account id.

id.dat stores the hex byte pairs of the account id in reverse order. The
value can be given as an argument or read from an id.dat file.

Examples:
  # Decode a stored value
  psvident token efcdab8967452301

  # Decode the AID of an id.dat file
  psvident token --id-file dumps/vita1/id.dat

  # Encode an account id the way id.dat stores it
  psvident token --encode 0123456789abcdef`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTokenCmd,
	}

	cmd.Flags().String("id-file", "",
		"Read the stored value from the AID line of this id.dat")
	cmd.Flags().BoolP("encode", "e", false,
		"Convert an account id to its stored form instead")

	return cmd
}

// runTokenCmd executes the token command.
func runTokenCmd(cmd *cobra.Command, args []string) error {
	idFile, err := cmd.Flags().GetString("id-file")
	if err != nil {
		return err
	}
	encode, err := cmd.Flags().GetBool("encode")
	if err != nil {
		return err
	}

	value, err := tokenInput(idFile, args)
	if err != nil {
		return err
	}

	convert := identity.Deobfuscate
	if encode {
		convert = identity.Obfuscate
	}

	out, err := convert(value)
	if err != nil {
		return fmt.Errorf("cannot convert account token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// tokenInput returns the value to convert from the arguments or the AID
// line of idFile. Exactly one source must be given.
func tokenInput(idFile string, args []string) (string, error) {
	switch {
	case idFile != "" && len(args) > 0:
		return "", errors.New("give either a stored value or --id-file, not both")
	case len(args) == 1:
		return args[0], nil
	case idFile == "":
		return "", errors.New("no account token given")
	}

	rec, _, err := identity.ParseFile(idFile)
	if err != nil {
		return "", err
	}
	if rec.AccountToken() == "" {
		return "", fmt.Errorf("%s has no AID value", idFile)
	}
	return rec.AccountToken(), nil
}
