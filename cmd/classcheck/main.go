// classcheck validates client classification configuration before it
// reaches a running server: it compiles every match expression in a
// classes file and can print the parsed form of a single expression.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jasongoodwin/dora/classify"
	"github.com/jasongoodwin/dora/config"
	"github.com/jasongoodwin/dora/dhcpv4"
)

func main() {
	root := &cobra.Command{
		Use:           "classcheck",
		Short:         "Validate and inspect dora client classification rules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(validateCmd(), parseCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <classes.yaml>",
		Short: "Compile every class match expression in a classes file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			classes, err := config.Load(args[0])
			if err != nil {
				return err
			}

			reg := classify.NewRegistry(log)
			loadErr := reg.Load(config.Sources(classes))

			for _, c := range classes {
				rule, ok := reg.Rule(c.Name)
				if !ok {
					continue
				}
				fmt.Printf("class %s: ok\n", c.Name)
				fmt.Printf("  match: %v\n", rule.Expr)
				for _, code := range sortedCodes(c.Options) {
					fmt.Printf("  option %d (%s): %d bytes\n",
						code, dhcpv4.OptionCode(code), len(c.Options[code]))
				}
			}

			if loadErr != nil {
				return fmt.Errorf("%d of %d classes failed to compile:\n%w",
					len(classes)-len(reg.Names()), len(classes), loadErr)
			}
			fmt.Printf("%d classes ok\n", len(classes))
			return nil
		},
	}
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <expression>",
		Short: "Parse one expression and print its canonical form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := classify.Compile(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Printf("%v\n", rule.Expr)
			return nil
		},
	}
}

func sortedCodes(options map[uint8][]byte) []uint8 {
	codes := make([]uint8, 0, len(options))
	for code := range options {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
