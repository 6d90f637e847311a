package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/a13labs/hypgen/pkg/builder"
	"github.com/a13labs/hypgen/pkg/reflection"
	"github.com/a13labs/hypgen/pkg/utils"
	"github.com/a13labs/hypgen/pkg/walker"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var parseCmd = &cobra.Command{
	Use:   "parse [file...]",
	Short: "Print the reflected types found in C++ files",
	Long: `Scan the given files, or the whole source directory when none are given,
resolve base classes and type names, and print the descriptors. Nothing is
written to disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var sources []walker.Source
		if len(args) == 0 {
			found, err := walker.Walk(cfg.SourceDir, cfg.Ignore, cfg.Extensions)
			if err != nil {
				return err
			}
			sources = found
		}
		for _, arg := range args {
			sources = append(sources, walker.Source{Path: arg, Rel: filepath.ToSlash(arg)})
		}

		b, err := builder.New(logger, cfg)
		if err != nil {
			return err
		}
		descs, err := b.Analyze(sources)
		if err != nil {
			return reportErrors(cmd, err)
		}

		format, _ := cmd.Flags().GetString("format")
		return writeDescriptors(cmd.OutOrStdout(), format, descs)
	},
}

func init() {
	parseCmd.Flags().StringP("format", "f", "human", "Output format (human, json, yaml)")
}

// descriptorView adds the names that are methods on the descriptor
type descriptorView struct {
	Name          string `json:"name" yaml:"name"`
	QualifiedName string `json:"qualified_name" yaml:"qualified_name"`
	ResolvedBase  string `json:"resolved_base,omitempty" yaml:"resolved_base,omitempty"`

	reflection.Descriptor `yaml:",inline"`
}

func writeDescriptors(w io.Writer, format string, descs []*reflection.Descriptor) error {
	views := make([]descriptorView, len(descs))
	for i, d := range descs {
		views[i] = descriptorView{
			Name:          d.SimpleName(),
			QualifiedName: d.QualifiedName(),
			ResolvedBase:  d.ResolvedBaseName(),
			Descriptor:    *d,
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	case "human", "":
		for _, d := range descs {
			printDescriptor(w, d)
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}

func printDescriptor(w io.Writer, d *reflection.Descriptor) {
	fmt.Fprintf(w, "%s %s (%s@%d)\n", d.Kind, d.QualifiedName(), d.File, d.Offset)
	if base := d.ResolvedBaseName(); base != "" {
		fmt.Fprintf(w, "  base: %s\n", base)
	}
	if len(d.Attributes) > 0 {
		fmt.Fprintf(w, "  attributes: %s\n", d.Attributes)
	}
	if brief := utils.ExtractBrief(d.Doxygen); brief != "" {
		fmt.Fprintf(w, "  brief: %s\n", brief)
	}
	for _, m := range d.Members {
		switch m.Kind {
		case reflection.MemberField:
			fmt.Fprintf(w, "  field %s %s\n", m.TypeName, m.Name)
		case reflection.MemberMethod:
			params := make([]string, len(m.Parameters))
			for i, p := range m.Parameters {
				params[i] = p.Type + " " + p.Name
			}
			suffix := ""
			if m.Const {
				suffix = " const"
			}
			fmt.Fprintf(w, "  method %s %s(%s)%s\n", m.ReturnTypeName, m.Name, strings.Join(params, ", "), suffix)
		case reflection.MemberProperty:
			fmt.Fprintf(w, "  property %s\n", strings.Join(m.PropertyArgs, ", "))
		case reflection.MemberEnumerator:
			if v := m.ValueText(); v != "" {
				fmt.Fprintf(w, "  enumerator %s = %s\n", m.Name, v)
			} else {
				fmt.Fprintf(w, "  enumerator %s\n", m.Name)
			}
		}
	}
}

// readSource reads a file named on the command line
func readSource(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return string(content), nil
}
