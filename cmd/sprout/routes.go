package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/sprout/internal/router"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	var showRegex bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the compiled route table",
		Long: `Print every route in match order, including the fallback routes,
with its name, pattern and static values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, table, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return printRoutes(cmd.OutOrStdout(), table, showRegex)
		},
	}

	cmd.Flags().BoolVar(&showRegex, "regex", false, "Show the compiled matcher of each route")

	return cmd
}

// printRoutes writes table as aligned columns.
func printRoutes(w io.Writer, table *router.Table, showRegex bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "NAME\tPATTERN\tDEFAULTS"
	if showRegex {
		header += "\tREGEX"
	}
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return err
	}

	for _, route := range table.Routes() {
		line := fmt.Sprintf("%s\t%s\t%s", route.Name, route.Pattern, formatDefaults(route.Defaults))
		if showRegex {
			line += "\t" + route.Regexp().String()
		}
		if _, err := fmt.Fprintln(tw, line); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func formatDefaults(defaults map[string]string) string {
	if len(defaults) == 0 {
		return "-"
	}

	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+defaults[key])
	}
	return strings.Join(pairs, ",")
}
