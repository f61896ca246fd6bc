package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kodingen/oleviewdotnet/cmd/objref/cmdutil"
	"github.com/kodingen/oleviewdotnet/internal/protocol/dcom"
)

var monikerCmd = &cobra.Command{
	Use:   "moniker [input]",
	Short: "Print the objref moniker display name for a marshaled OBJREF",
	Long: `Print the objref moniker display name for a marshaled OBJREF.

The input is validated by parsing it first, so a moniker is only ever
produced for a well-formed reference.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		ref, err := cmdutil.DecodeInput(data, format)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), dcom.Moniker(ref))
		return nil
	},
}

func init() {
	monikerCmd.Flags().StringP("file", "f", "", "Read input from file instead of argument")
	monikerCmd.Flags().String("format", cmdutil.FormatAuto, "Input format (auto|hex|base64|moniker|raw)")
}
