package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"slicetrait/internal/config"
	"slicetrait/internal/logging"
	"slicetrait/internal/mapping"
	"slicetrait/trait"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var axis string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered trait mappings",
		Long: `List the mappings known to the registry: built-in tensor mappings
(unless --no-builtin) followed by those of every --mapping file.

With --output yaml the listing is a mapping file that can be loaded again;
mappings computed by Go functions other than forwarding are left out.`,
		Example: `  slicetrait list
  slicetrait list --axis quatslice -o table
  slicetrait list --no-builtin --mapping traits.yaml -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, axis)
		},
	}

	cmd.Flags().StringVarP(&axis, "axis", "a", AllAxes, "axis to list, or \"all\"")

	return cmd
}

func runList(cmd *cobra.Command, axisName string) error {
	st := StateFrom(cmd.Context())

	axes, err := selectAxes(st.Registry, axisName)
	if err != nil {
		return err
	}

	var ms []trait.Mapping
	for _, axis := range axes {
		ms = append(ms, st.Registry.Mappings(axis)...)
	}

	out := cmd.OutOrStdout()

	switch st.Config.Output {
	case config.OutputYAML:
		mf, skipped := mapping.FromMappings(ms)
		if skipped > 0 {
			logging.L().Warnw("computed mappings cannot be written as YAML", logging.FieldCount, skipped)
		}

		data, err := mapping.Marshal(mf)
		if err != nil {
			return err
		}

		_, err = out.Write(data)

		return err

	case config.OutputTable:
		t := newTable(out, "Axis", "Stage", "Index", "Container", "Result", "Source")
		for _, m := range ms {
			t.AppendRow(table.Row{m.Axis, m.Stage(), m.Index, m.Container, m.ResultString(), m.Source})
		}

		t.AppendFooter(table.Row{"", "", "", "", "Total", len(ms)})
		t.Render()

		return nil

	default:
		for _, m := range ms {
			if m.Source != "" {
				_, _ = fmt.Fprintf(out, "%s  (%s)\n", m, m.Source)
				continue
			}

			_, _ = fmt.Fprintln(out, m)
		}

		return nil
	}
}
