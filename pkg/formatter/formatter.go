// Package formatter runs clang-format over generated C++ sources
package formatter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Formatter pipes code through an external clang-format binary. The zero
// value, and a Formatter without a command, leaves code untouched.
type Formatter struct {
	command string
	style   string
}

// New creates a formatter running command with the given -style value.
// An empty style lets clang-format look for a .clang-format file.
func New(command, style string) *Formatter {
	return &Formatter{
		command: strings.TrimSpace(command),
		style:   strings.TrimSpace(style),
	}
}

// Enabled reports whether Format does anything
func (f *Formatter) Enabled() bool {
	return f != nil && f.command != ""
}

// Format formats code as if it were the file filename. The name decides
// the language and where clang-format searches for its configuration.
func (f *Formatter) Format(ctx context.Context, filename, code string) (string, error) {
	if !f.Enabled() {
		return code, nil
	}

	args := []string{"--assume-filename=" + filename}
	if f.style != "" {
		args = append(args, "--style="+f.style)
	}
	cmd := exec.CommandContext(ctx, f.command, args...)
	cmd.Stdin = strings.NewReader(code)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("clang-format failed on %s: %w: %s", filename, err, msg)
		}
		return "", fmt.Errorf("clang-format failed on %s: %w", filename, err)
	}
	return stdout.String(), nil
}
