package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	xerrors "github.com/qiniu/x/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/a13labs/hypgen/pkg/builder"
	"github.com/a13labs/hypgen/pkg/config"
	"github.com/a13labs/hypgen/pkg/utils"
	"github.com/a13labs/hypgen/pkg/walker"
)

const initFileName = "hypgen.yaml"

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write a hypgen.yaml for a source tree",
	Long: `Scan a source tree for reflected types and write a hypgen.yaml with the
default settings into it. The header of the file lists the headers that
declare reflected types.

Examples:
  # Initialize the current directory
  hypgen init

  # Replace an existing configuration
  hypgen init --overwrite src/`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("overwrite", false, "Overwrite an existing "+initFileName)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	path := filepath.Join(dir, initFileName)
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%s already exists, use --overwrite to replace it", path)
	}

	defaults := config.New()
	sources, err := walker.Walk(dir, defaults.Ignore, defaults.Extensions)
	if err != nil {
		return err
	}
	b, err := builder.New(logger, config.New(config.WithSourceDir(dir)))
	if err != nil {
		return err
	}
	descs, err := b.Analyze(sources)
	if err != nil {
		n := 1
		if list, ok := err.(xerrors.List); ok {
			n = len(list)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d problems found while scanning, run 'hypgen parse' for details\n", n)
	}

	counts := map[string]int{}
	for _, d := range descs {
		counts[d.File]++
	}

	var buf bytes.Buffer
	if err := writeInitConfig(&buf, defaults, counts); err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d reflected types in %d files\n", path, len(descs), len(counts))
	return nil
}

// writeInitConfig writes c as YAML, preceded by a comment listing the
// files with reflected types
func writeInitConfig(w io.Writer, c *config.Config, counts map[string]int) error {
	files := make([]string, 0, len(counts))
	for f := range counts {
		files = append(files, f)
	}
	sort.Strings(files)

	fmt.Fprintf(w, "# %s generated by hypgen init\n#\n", initFileName)
	fmt.Fprintln(w, "# Paths are relative to the directory hypgen runs in.")
	if len(files) > 0 {
		fmt.Fprintln(w, "#\n# Headers with reflected types:")
		for _, f := range files {
			fmt.Fprintf(w, "#   %s (%d)\n", f, counts[f])
		}
	}
	fmt.Fprintln(w)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
