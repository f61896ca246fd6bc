package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kodingen/oleviewdotnet/cmd/objref/cmdutil"
	"github.com/kodingen/oleviewdotnet/internal/cli/output"
	"github.com/kodingen/oleviewdotnet/internal/logger"
	"github.com/kodingen/oleviewdotnet/internal/oxid"
	"github.com/kodingen/oleviewdotnet/internal/protocol/dcom"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [input]",
	Short: "Parse a marshaled OBJREF and print its structure",
	Long: `Parse a marshaled OBJREF and print its structure.

The input is given as an argument, read from a file with --file, or read
from stdin when neither is present. Hex, base64, raw bytes, and objref
monikers are auto-detected; use --format to disambiguate.`,
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

		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			text, err := yaml.Marshal(cmdutil.FromRef(ref))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(text)
			return err
		}

		var resolver dcom.Resolver
		if resolve, _ := cmd.Flags().GetBool("resolve"); resolve || cfg.Resolver.Enabled {
			resolver = oxid.ProcessResolver{}
		}
		printRef(cmd.OutOrStdout(), ref, resolver)
		return nil
	},
}

func init() {
	decodeCmd.Flags().StringP("file", "f", "", "Read input from file instead of argument")
	decodeCmd.Flags().String("format", cmdutil.FormatAuto, "Input format (auto|hex|base64|moniker|raw)")
	decodeCmd.Flags().Bool("resolve", false, "Resolve the IPID against the local process table")
	decodeCmd.Flags().Bool("yaml", false, "Print the reference as a YAML document")
}

// readInput fetches the raw command input from the argument, --file, or
// stdin, in that order of preference.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 {
		return []byte(args[0]), nil
	}
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read input file: %w", err)
		}
		return data, nil
	}
	logger.Debug("reading OBJREF from stdin")
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

func printRef(w io.Writer, ref dcom.ObjRef, resolver dcom.Resolver) {
	fmt.Fprintf(w, "Type: %s\n", ref.RefType())
	fmt.Fprintf(w, "IID:  %s\n", ref.IID())

	switch o := ref.(type) {
	case *dcom.StandardObjRef:
		printStd(w, o.Std)
		printBindings(w, o.Bindings)
	case *dcom.HandlerObjRef:
		printStd(w, o.Std)
		fmt.Fprintf(w, "CLSID: %s\n", o.ClassID)
		printBindings(w, o.Bindings)
	case *dcom.CustomObjRef:
		fmt.Fprintf(w, "CLSID: %s\n", o.ClassID)
		fmt.Fprintf(w, "Extension data: %d bytes", len(o.ExtensionData))
		if len(o.ExtensionData) > 0 {
			fmt.Fprintf(w, " (%s)", hex.EncodeToString(o.ExtensionData))
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Object data: %d bytes\n", len(o.ObjectData))
		if len(o.ObjectData) > 0 {
			fmt.Fprintln(w, hex.Dump(o.ObjectData))
		}
	}

	if info, ok := dcom.ResolveProcess(ref, resolver); ok {
		fmt.Fprintf(w, "\nProcess: %d", info.ProcessID)
		if info.ProcessName != "" {
			fmt.Fprintf(w, " (%s)", info.ProcessName)
		}
		fmt.Fprintf(w, "\nApartment: %s\n", info.ApartmentName)
	}
}

func printStd(w io.Writer, std dcom.StdObjRef) {
	fmt.Fprintf(w, "Flags: %#08x", std.Flags)
	if std.NoPing() {
		fmt.Fprint(w, " (no-ping)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Public refs: %d\n", std.PublicRefs)
	fmt.Fprintf(w, "OXID: %#016x\n", std.OXID)
	fmt.Fprintf(w, "OID:  %#016x\n", std.OID)
	fmt.Fprintf(w, "IPID: %s\n", std.IPID)
}

func printBindings(w io.Writer, dsa dcom.DualStringArray) {
	if len(dsa.StringBindings) > 0 {
		fmt.Fprintln(w, "\nString bindings:")
		rows := make([][]string, 0, len(dsa.StringBindings))
		for _, b := range dsa.StringBindings {
			rows = append(rows, []string{
				strconv.Itoa(int(b.TowerProtocol)),
				b.TowerProtocol.String(),
				b.NetworkAddress,
			})
		}
		output.Table(w, []string{"Tower", "Protocol", "Address"}, rows)
	}

	if len(dsa.SecurityBindings) > 0 {
		fmt.Fprintln(w, "\nSecurity bindings:")
		rows := make([][]string, 0, len(dsa.SecurityBindings))
		for _, b := range dsa.SecurityBindings {
			rows = append(rows, []string{
				strconv.Itoa(int(b.AuthnService)),
				b.AuthnService.String(),
				b.PrincipalName,
			})
		}
		output.Table(w, []string{"Service", "Name", "Principal"}, rows)
	}
}
