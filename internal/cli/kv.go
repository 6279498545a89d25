package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leonardcser/redis-basic/internal/store"
	"github.com/leonardcser/redis-basic/internal/tools"
)

// NewStoreCommand creates the store command.
func NewStoreCommand(rootOpts *RootOptions) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "store VALUE",
		Short: "Store a value under a fresh key and print the key",
		Long: `Store a value under a fresh random key and print the key.

The call is counted and recorded in the call history of Cache.store.

Examples:
  redis-basic store foo
  redis-basic store 42 --type int`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := tools.ParseValue(args[0], kind)
			if err != nil {
				return err
			}
			b, err := rootOpts.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			s := store.Instrument(store.Attach(b), b)
			key, err := s.Store(cmd.Context(), value)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "type", "text", "value type (text|int|float)")
	return cmd
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := rootOpts.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			out, err := tools.Lookup(cmd.Context(), store.Attach(b), args[0], as)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "raw", "conversion (raw|int|text)")
	return cmd
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay [OPERATION]",
		Short: "Print the recorded call history of an operation",
		Long: `Print how many times an operation was called, then each call with
its arguments and result in call order. OPERATION defaults to Cache.store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := rootOpts.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()
			return store.Replay(cmd.Context(), cmd.OutOrStdout(), b, operation(args))
		},
	}
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count [OPERATION]",
		Short: "Print the call counter of an operation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := rootOpts.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()
			n, err := store.CallCount(cmd.Context(), b, operation(args))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Erase every key, counter and call history in the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := rootOpts.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()
			_, err = store.New(cmd.Context(), b)
			return err
		},
	}
}

func operation(args []string) store.Op {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return store.OpStore
	}
	return store.Op(args[0])
}
