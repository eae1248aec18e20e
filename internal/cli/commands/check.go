package commands

import (
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"slicetrait/internal/analyze"
	"slicetrait/internal/diagnostic"
	"slicetrait/internal/mapping"
	"slicetrait/trait"
)

// CodeRegistration reports an entry the registry rejects, typically because
// it overlaps a mapping registered before the file.
const CodeRegistration = "registration_failed"

// ErrCheckFailed is returned when any checked file has error diagnostics.
var ErrCheckFailed = errors.New("mapping check failed")

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	var packages []string

	cmd := &cobra.Command{
		Use:   "check <file.yaml>...",
		Short: "Validate trait mapping files",
		Long: `Validate trait mapping files and report diagnostics.

Each file is validated on its own, then registered on top of the current
registry to catch conflicts with built-in or previously loaded mappings.
With --packages, containers are also checked against the named Go packages.
Exits non-zero when any file has errors.`,
		Example: `  slicetrait check traits.yaml
  slicetrait check traits.yaml --packages ./... -o table`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, packages)
		},
	}

	cmd.Flags().StringSliceVarP(&packages, "packages", "p", nil, "Go package patterns whose types containers must name")

	return cmd
}

func runCheck(cmd *cobra.Command, files, packages []string) error {
	st := StateFrom(cmd.Context())

	var set *analyze.ContainerSet

	if len(packages) > 0 {
		var err error

		set, err = analyze.NewAnalyzer().LoadContainers(packages...)
		if err != nil {
			return err
		}
	}

	// Files are independent: each registers on its own clone.
	results := make([]*diagnostic.Diagnostics, len(files))

	var g errgroup.Group

	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, file := range files {
		g.Go(func() error {
			results[i] = checkFile(st.Registry, file, set)
			return nil
		})
	}

	_ = g.Wait()

	var (
		views  []diagnosticView
		failed int
	)

	for i, diags := range results {
		if diags.HasErrors() {
			failed++
		}

		views = append(views, viewDiagnostics(files[i], diags.All())...)
	}

	if err := renderDiagnostics(cmd.OutOrStdout(), st.Config.Output, views); err != nil {
		return err
	}

	if failed > 0 {
		return errors.Wrapf(ErrCheckFailed, "%d of %d file(s) have errors", failed, len(files))
	}

	return nil
}

func checkFile(reg *trait.Registry, file string, set *analyze.ContainerSet) *diagnostic.Diagnostics {
	diags := &diagnostic.Diagnostics{}

	mf, err := mapping.LoadFile(file)
	if err != nil {
		diags.AddError("load_failed", err.Error(), "", "", errors.GetAllHints(err)...)
		return diags
	}

	diags.Merge(*mapping.Validate(mf, reg.Axes()...))

	if set != nil {
		diags.Merge(*mapping.CheckContainers(mf, set))
	}

	if diags.HasErrors() {
		return diags
	}

	scratch := cloneRegistry(reg)
	if err := mapping.Apply(mf, scratch, file); err != nil {
		diags.AddError(CodeRegistration, err.Error(), "", "", errors.GetAllHints(err)...)
	}

	return diags
}

func cloneRegistry(reg *trait.Registry) *trait.Registry {
	clone := trait.NewRegistry(reg.Axes()...)

	for _, axis := range reg.Axes() {
		clone.MustRegister(reg.Mappings(axis)...)
	}

	return clone
}
