// Package cli wires nostimint's single client-facing subcommand,
// sign-note, onto a cobra root command.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fedimint-nostimint/nostimint/internal/client"
)

var (
	configFile string
	debug      bool
)

// NewRootCmd builds the root command for a given client module. The
// caller (cmd/nostimintd) is responsible for constructing mod with its
// host collaborators (federation API, event builder, global context)
// already wired in.
func NewRootCmd(mod *client.Module) *cobra.Command {
	root := &cobra.Command{
		Use:   "nostimintd",
		Short: "nostimint client CLI",
		Long:  "nostimintd drives a federated nostimint client: sign a note through the federation's threshold key.",
	}
	root.PersistentFlags().StringVar(&configFile, "conf", "", "client configuration file path (accepted but not read; nostimintd loads NOSTIMINT_CLIENT_CONFIG)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging (accepted but not read; the log level comes from the server config)")

	root.AddCommand(newSignNoteCmd(mod))
	return root
}

// Execute runs root and, on failure, prints a one-line error and exits
// with a non-zero status, per spec.md §7.
func Execute(root *cobra.Command) {
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newSignNoteCmd(mod *client.Module) *cobra.Command {
	return &cobra.Command{
		Use:   "sign-note <message>",
		Short: "Ask the federation to threshold-sign a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := mod.HandleCLICommand(context.Background(), append([]string{"sign-note"}, args...))
			if err != nil {
				return err
			}
			fmt.Printf("%x\n", sig)
			return nil
		},
	}
}
