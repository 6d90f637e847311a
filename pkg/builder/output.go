package builder

import (
	"fmt"

	"github.com/a13labs/hypgen/pkg/metadata"
	"github.com/a13labs/hypgen/pkg/utils"
)

type outputFile struct {
	path    string
	content string
}

// output holds the companion files of one source
type output struct {
	source string
	files  []outputFile
}

// write stores the outputs and then the metadata of every descriptor
func (b *Builder) write(outputs []*output) ([]string, error) {
	var written []string
	for _, out := range outputs {
		for _, f := range out.files {
			written = append(written, f.path)
			if b.cfg.DryRun {
				b.logger.Info("would write", "path", f.path, "source", out.source)
				continue
			}
			if err := utils.WriteFileAtomic(f.path, []byte(f.content), 0o644); err != nil {
				return written, fmt.Errorf("write %s: %w", f.path, err)
			}
			b.logger.Info("wrote", "path", f.path, "source", out.source)
		}
	}

	for _, d := range b.descriptors {
		b.meta.SetLastModified(d.QualifiedName(), metadata.Timestamp(d.MTime))
	}
	if b.cfg.DryRun {
		return written, nil
	}
	if err := b.meta.Save(); err != nil {
		return written, err
	}
	return written, nil
}
