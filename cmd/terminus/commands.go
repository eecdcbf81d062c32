package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/qdgo/router"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var capabilities []string

	cmd := &cobra.Command{
		Use:   "inspect <file.toml>",
		Short: "Show the terminus described by a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWireTerminus(args[0])
			if err != nil {
				return err
			}
			logger.Debug().Str("path", args[0]).Stringer("wire", w).Msg("loaded terminus")

			t := router.NewTerminus(w)
			defer t.Free()
			printTerminus(cmd.OutOrStdout(), w.Type(), t, capabilities)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&capabilities, "capability", "c", nil, "Report whether the terminus has this capability")
	return cmd
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <file.toml>",
		Short: "Print the AMQP encoding of the terminus described by a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWireTerminus(args[0])
			if err != nil {
				return err
			}

			t := router.NewTerminus(w)
			defer t.Free()

			out := router.NewWireTerminus(w.Type())
			t.CopyTo(out)
			b, err := out.MarshalBinary()
			if err != nil {
				return fmt.Errorf("encode terminus: %w", err)
			}
			logger.Debug().Int("bytes", len(b)).Str("type", w.Type().String()).Msg("encoded terminus")

			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(b))
			return nil
		},
	}
}

func newDecodeCmd() *cobra.Command {
	var capabilities []string

	cmd := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode a hex encoded source, target or coordinator and show it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := hex.DecodeString(strings.Join(strings.Fields(args[0]), ""))
			if err != nil {
				return fmt.Errorf("decode terminus: %w", err)
			}

			w := router.NewWireTerminus(router.TerminusUnspecified)
			if err := w.UnmarshalBinary(b); err != nil {
				return fmt.Errorf("decode terminus: %w", err)
			}
			logger.Debug().Int("bytes", len(b)).Stringer("wire", w).Msg("decoded terminus")

			t := router.NewTerminus(w)
			defer t.Free()
			printTerminus(cmd.OutOrStdout(), w.Type(), t, capabilities)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&capabilities, "capability", "c", nil, "Report whether the terminus has this capability")
	return cmd
}

func printTerminus(out io.Writer, typ router.TerminusType, t *router.Terminus, capabilities []string) {
	fmt.Fprintf(out, "type: %s\n", typ)
	if t.IsAnonymous() {
		fmt.Fprintln(out, "address: <anonymous>")
	} else {
		fmt.Fprintf(out, "address: %s\n", t.Address())
	}
	fmt.Fprintf(out, "dynamic: %t\n", t.IsDynamic())
	fmt.Fprintf(out, "durability: %s\n", t.Durability())
	fmt.Fprintf(out, "expiry-policy: %s\n", t.ExpiryPolicy())
	fmt.Fprintf(out, "timeout: %d\n", t.Timeout())
	fmt.Fprintf(out, "distribution-mode: %s\n", t.DistributionMode())
	if !t.Properties().Empty() {
		fmt.Fprintf(out, "properties: %s\n", t.Properties())
	}
	if !t.Filter().Empty() {
		fmt.Fprintf(out, "filter: %s\n", t.Filter())
	}
	if !t.Outcomes().Empty() {
		fmt.Fprintf(out, "outcomes: %s\n", t.Outcomes())
	}
	if !t.Capabilities().Empty() {
		fmt.Fprintf(out, "capabilities: %s\n", t.Capabilities())
	}
	if addr := t.DynamicNodeAddress(); addr != nil {
		fmt.Fprintf(out, "dynamic-node-address: %s\n", addr)
	}
	for _, c := range capabilities {
		fmt.Fprintf(out, "has-capability %s: %t\n", c, t.HasCapability(c))
	}
}
