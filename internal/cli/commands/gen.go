package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"slicetrait/internal/gen"
	"slicetrait/internal/mapping"
)

// NewGenCommand creates the gen command.
func NewGenCommand() *cobra.Command {
	cfg := gen.DefaultGeneratorConfig()
	cfg.OutputDir = "."

	var stdout bool

	cmd := &cobra.Command{
		Use:   "gen <file.yaml>",
		Short: "Generate Go registration code from a mapping file",
		Long: `Generate a Go file declaring the mappings of a trait mapping file.

The generated package exposes Mappings() and Register(reg), and with --init
registers into trait.Default when imported. The file is validated first;
generation fails on any error diagnostic.`,
		Example: `  slicetrait gen traits.yaml --package gridtraits --dir ./gridtraits
  slicetrait gen traits.yaml --init --stdout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, args[0], cfg, stdout)
		},
	}

	cmd.Flags().StringVar(&cfg.PackageName, "package", cfg.PackageName, "name of the generated package")
	cmd.Flags().StringVarP(&cfg.OutputDir, "dir", "d", cfg.OutputDir, "directory to write the generated file to")
	cmd.Flags().StringVar(&cfg.Filename, "file", "", "generated file name (default <mapping>_traits.go)")
	cmd.Flags().StringVar(&cfg.TraitImport, "trait-import", cfg.TraitImport, "import path of the trait package")
	cmd.Flags().BoolVar(&cfg.Init, "init", false, "register into trait.Default from an init function")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the generated code instead of writing it")

	return cmd
}

func runGen(cmd *cobra.Command, path string, cfg gen.GeneratorConfig, stdout bool) error {
	mf, err := mapping.LoadFile(path)
	if err != nil {
		return err
	}

	file, err := gen.NewGenerator(cfg).Generate(mf, path)
	if err != nil {
		return err
	}

	if stdout {
		_, err = cmd.OutOrStdout().Write(file.Content)
		return err
	}

	paths, err := gen.WriteFiles([]gen.GeneratedFile{*file}, cfg.OutputDir)
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}

	return nil
}
