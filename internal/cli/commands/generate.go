package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapqa/internal/config"
	"github.com/leapstack-labs/leapqa/internal/loader"
	"github.com/leapstack-labs/leapqa/pkg/generate"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	Schema string
	Rows   int
	Seed   int64
	Out    string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(cfgFile *string) *cobra.Command {
	opts := &GenerateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic dataset from a schema",
		Long: `Generate a synthetic CSV dataset conforming to a schema description.
The same seed always produces the same dataset.`,
		Example: `  leapqa generate --schema schema.yaml --rows 1000 --out synthetic.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)

			sch, err := loader.LoadSchema(opts.Schema)
			if err != nil {
				return err
			}
			ds, err := generate.Dataset(sch, generate.Options{Rows: opts.Rows, Seed: opts.Seed})
			if err != nil {
				return err
			}
			if err := loader.WriteCSV(opts.Out, ds); err != nil {
				return err
			}

			logger.Info("synthetic dataset written", "path", opts.Out, "rows", ds.NumRows())
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", ds.NumRows(), opts.Out)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Schema, "schema", "", "schema description file (YAML/JSON)")
	flags.IntVar(&opts.Rows, "rows", 1000, "number of rows to generate")
	flags.Int64Var(&opts.Seed, "seed", 42, "random seed")
	flags.StringVar(&opts.Out, "out", "", "where to write the generated CSV")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
