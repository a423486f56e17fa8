package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bufgen/internal/verilog"
)

func newGeometryCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "geometry CONFIG...",
		Short: "Print the derived memory geometry of every configured buffer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bufs, err := g.loadBuffers(args, g.reporter())
			if err != nil {
				return err
			}
			for _, b := range bufs {
				geo := b.Config.Geometry()
				w := g.stdout
				fmt.Fprintf(w, "%s\n", b.Name)
				fmt.Fprintf(w, "  %-16s %v\n", "dim patterns:", geo.DimPatterns)
				fmt.Fprintf(w, "  %-16s %d\n", "banks:", geo.BankCount)
				fmt.Fprintf(w, "  %-16s %d\n", "bank depth:", geo.BankDepth)
				fmt.Fprintf(w, "  %-16s %d\n", "address width:", geo.AddressWidth)
				fmt.Fprintf(w, "  %-16s %d\n", "fifo depth:", geo.FIFODepth)
				fmt.Fprintf(w, "  %-16s %d\n", "fifo addr width:", geo.FIFOAddrWidth)
				fmt.Fprintf(w, "  %-16s %s\n", "port shape:", geo.Shape)
				fmt.Fprintf(w, "  %-16s %s\n", "memcore:", b.Config.Memcore.Primitive())
			}
			return nil
		},
	}
}

func newPortsCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ports FILE...",
		Short: "Print the parameters and ports of the modules in Verilog files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				src, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				headers, err := verilog.ParseModules(string(src))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				for _, h := range headers {
					printHeader(g.stdout, h)
				}
			}
			return nil
		},
	}
}

func printHeader(w io.Writer, h verilog.Header) {
	fmt.Fprintf(w, "module %s\n", h.Name)
	for _, p := range h.Params {
		fmt.Fprintf(w, "  parameter %s = %s\n", p.Name, p.Value)
	}
	params := h.ParamValues()
	for _, p := range h.Ports {
		width := "?"
		if n, err := verilog.EvalWidth(p.Range, params); err == nil {
			width = fmt.Sprint(n)
		}
		fmt.Fprintf(w, "  %-6s %-4s %4s %s\n", p.Direction, p.Kind, width, p.Name)
	}
}
