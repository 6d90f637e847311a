package cmd

import (
	"fmt"

	xerrors "github.com/qiniu/x/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/a13labs/hypgen/pkg/builder"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Scan the source tree and write the companion files",
	Long: `Walk the source directory, extract every annotated type and write a
.generated.cpp and a .cs file for each source whose types changed since the
last run. Nothing is written when any error is found.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := builder.New(logger, cfg)
		if err != nil {
			return err
		}
		res, err := b.Run()
		if err != nil {
			return reportErrors(cmd, err)
		}

		verb := "wrote"
		if cfg.DryRun {
			verb = "would write"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d reflected types, %s %d files, %d up to date\n",
			len(res.Descriptors), verb, len(res.Written), len(res.Skipped))
		return nil
	},
}

// reportErrors prints one line per problem and returns a summary
func reportErrors(cmd *cobra.Command, err error) error {
	list, ok := err.(xerrors.List)
	if !ok {
		return err
	}
	for _, e := range list {
		fmt.Fprintln(cmd.ErrOrStderr(), e)
	}
	return fmt.Errorf("generation failed with %d errors", len(list))
}

func init() {
	flags := generateCmd.Flags()
	flags.StringP("source", "s", "", "source root to scan")
	flags.String("cpp-out", "", "output directory of .generated.cpp files")
	flags.String("cs-out", "", "output directory of .cs files")
	flags.StringP("metadata", "m", "", "metadata file (.json or .yaml)")
	flags.StringSlice("ignore", nil, "paths under the source root to skip")
	flags.Bool("dry-run", false, "do everything but write files")

	for key, flag := range map[string]string{
		"source_dir":     "source",
		"cpp_out_dir":    "cpp-out",
		"csharp_out_dir": "cs-out",
		"metadata_file":  "metadata",
		"ignore":         "ignore",
		"dry_run":        "dry-run",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}
