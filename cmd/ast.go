package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/a13labs/hypgen/pkg/ast"
	"github.com/a13labs/hypgen/pkg/scanner"
	"github.com/a13labs/hypgen/pkg/utils"
)

var astCmd = &cobra.Command{
	Use:   "ast [file] [scope-path]",
	Short: "Print the declarations the C++ parser sees in a file",
	Long: `Parse a whole C++ file with the reflection macros defined away and print
the declarations. The optional scope-path, in the format namespace::class,
limits the output to one namespace or class.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readSource(args[0])
		if err != nil {
			return err
		}
		data, err := scanner.New(cfg.Parser).ParseSource(args[0], content)
		if err != nil {
			return fmt.Errorf("failed to parse file %s: %w", args[0], err)
		}

		var node any = data
		if len(args) == 2 {
			for _, part := range utils.SplitPath(args[1]) {
				if !utils.IsValidCppIdentifier(part) {
					return fmt.Errorf("invalid scope path %q", args[1])
				}
			}
			if node = findScope(data.Namespace, args[1]); node == nil {
				return fmt.Errorf("scope not found: %s", args[1])
			}
		}

		format, _ := cmd.Flags().GetString("format")
		return writeNode(cmd.OutOrStdout(), format, node)
	},
}

func init() {
	astCmd.Flags().StringP("format", "f", "yaml", "Output format (json, yaml)")
}

// findScope walks namespaces first, then nested classes
func findScope(ns *ast.NamespaceScope, path string) any {
	parts := utils.SplitPath(path)
	for i, part := range parts {
		if next := ns.Namespace(part, false); next != nil {
			ns = next
			continue
		}
		if c := findClass(ns.Classes, parts[i:]); c != nil {
			return c
		}
		return nil
	}
	return ns
}

func findClass(classes []*ast.ClassScope, parts []string) *ast.ClassScope {
	for _, c := range classes {
		if c.Class.Typename.LastName() != parts[0] {
			continue
		}
		if len(parts) == 1 {
			return c
		}
		return findClass(c.Classes, parts[1:])
	}
	return nil
}

func writeNode(w io.Writer, format string, node any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(node)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}
