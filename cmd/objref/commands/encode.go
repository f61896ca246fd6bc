package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kodingen/oleviewdotnet/cmd/objref/cmdutil"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Build a marshaled OBJREF from a YAML description",
	Long: `Build a marshaled OBJREF from a YAML description.

The description is read from --spec or stdin. Example:

  type: standard
  iid: 00000000-0000-0000-c000-000000000046
  std:
    public_refs: 1
    oxid: 1
    oid: 2
    ipid: deadbeef-1234-5678-9abc-def012345678
  string_bindings:
    - tower_protocol: 7
      address: 10.0.0.1

The --encoding flag (or output.encoding in the config file) selects hex,
base64, moniker, or raw output. Raw bytes go to stdout unmodified.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			text []byte
			err  error
		)
		if path, _ := cmd.Flags().GetString("spec"); path != "" {
			if text, err = os.ReadFile(path); err != nil {
				return fmt.Errorf("read spec file: %w", err)
			}
		} else if text, err = io.ReadAll(cmd.InOrStdin()); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}

		var doc cmdutil.Document
		if err := yaml.Unmarshal(text, &doc); err != nil {
			return fmt.Errorf("parse description: %w", err)
		}
		ref, err := doc.Build()
		if err != nil {
			return err
		}

		encoding, _ := cmd.Flags().GetString("encoding")
		if encoding == "" {
			encoding = cfg.Output.Encoding
		}
		out, err := cmdutil.EncodeOutput(ref, encoding)
		if err != nil {
			return err
		}

		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			return err
		}
		if encoding != cmdutil.FormatRaw {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}

func init() {
	encodeCmd.Flags().String("spec", "", "Path to the YAML reference description (default: stdin)")
	encodeCmd.Flags().String("encoding", "", "Output encoding (hex|base64|moniker|raw)")
}
