package commands

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"slicetrait/internal/analyze"
	"slicetrait/internal/config"
	"slicetrait/trait"
)

// ErrUncovered is returned by audit --strict when some container has no mapping.
var ErrUncovered = errors.New("containers without slice traits")

type auditOptions struct {
	axis      string
	uncovered bool
	strict    bool
}

// NewAuditCommand creates the audit command.
func NewAuditCommand() *cobra.Command {
	opts := &auditOptions{}

	cmd := &cobra.Command{
		Use:   "audit <package pattern>...",
		Short: "Report which Go container types have slice traits",
		Long: `Load Go packages and report, for each exported named type and axis,
the registered mappings whose container pattern can match it.`,
		Example: `  slicetrait audit ./... --mapping traits.yaml
  slicetrait audit example.com/tensors --axis rowslice --uncovered`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.axis, "axis", "a", AllAxes, "axis to audit, or \"all\"")
	cmd.Flags().BoolVar(&opts.uncovered, "uncovered", false, "only show containers without mappings")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when any container is uncovered")

	return cmd
}

type coverageView struct {
	Container string   `yaml:"container"`
	Axis      string   `yaml:"axis"`
	Covered   bool     `yaml:"covered"`
	Mappings  []string `yaml:"mappings,omitempty"`
}

func runAudit(cmd *cobra.Command, patterns []string, opts *auditOptions) error {
	st := StateFrom(cmd.Context())

	axes, err := selectAxes(st.Registry, opts.axis)
	if err != nil {
		return err
	}

	set, err := analyze.NewAnalyzer().LoadContainers(patterns...)
	if err != nil {
		return err
	}

	report := analyze.Audit(set, st.Registry, axes...)

	items := report.Items
	if opts.uncovered {
		items = report.Uncovered()
	}

	views := make([]coverageView, 0, len(items))
	for _, it := range items {
		v := coverageView{Container: it.Container.Pattern.String(), Axis: it.Axis.String(), Covered: it.Covered()}
		for _, m := range it.Mappings {
			v.Mappings = append(v.Mappings, mappingLabel(m))
		}

		views = append(views, v)
	}

	if err := renderCoverage(cmd, st.Config.Output, views); err != nil {
		return err
	}

	if n := len(report.Uncovered()); opts.strict && n > 0 {
		return errors.Wrapf(ErrUncovered, "%d of %d", n, len(report.Items))
	}

	return nil
}

func mappingLabel(m trait.Mapping) string {
	s := fmt.Sprintf("%s [%s] -> %s", m.Container, m.Index, m.ResultString())
	if m.Source != "" {
		s += " (" + m.Source + ")"
	}

	return s
}

func renderCoverage(cmd *cobra.Command, format string, views []coverageView) error {
	out := cmd.OutOrStdout()

	switch format {
	case config.OutputYAML:
		return writeYAML(out, views)

	case config.OutputTable:
		t := newTable(out, "Container", "Axis", "Covered", "Mappings")
		for _, v := range views {
			t.AppendRow(table.Row{v.Container, v.Axis, v.Covered, strings.Join(v.Mappings, "\n")})
		}

		t.Render()

		return nil

	default:
		for _, v := range views {
			status := "uncovered"
			if v.Covered {
				status = fmt.Sprintf("%d mapping(s)", len(v.Mappings))
			}

			_, _ = fmt.Fprintf(out, "%s %s: %s\n", v.Axis, v.Container, status)
		}

		return nil
	}
}
