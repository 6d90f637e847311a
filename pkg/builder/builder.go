// Package builder drives a generation run: it scans the sources, resolves
// base classes and type names across them, and writes the companion
// files of every header whose reflected types changed.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	xerrors "github.com/qiniu/x/errors"

	"github.com/a13labs/hypgen/pkg/config"
	"github.com/a13labs/hypgen/pkg/formatter"
	"github.com/a13labs/hypgen/pkg/metadata"
	"github.com/a13labs/hypgen/pkg/reflection"
	"github.com/a13labs/hypgen/pkg/render"
	"github.com/a13labs/hypgen/pkg/scanner"
	"github.com/a13labs/hypgen/pkg/typemap"
	"github.com/a13labs/hypgen/pkg/utils"
	"github.com/a13labs/hypgen/pkg/walker"
)

// Result summarises a run
type Result struct {
	Descriptors []*reflection.Descriptor
	// Written lists the output files, in source order; on a dry run they
	// are the files that would have been written
	Written []string
	// Skipped lists the qualified names that were up to date
	Skipped []string
}

// Builder holds the state of one run. It is not reusable.
type Builder struct {
	logger    *slog.Logger
	cfg       *config.Config
	scanner   *scanner.Scanner
	mapper    *typemap.Mapper
	renderer  *render.Renderer
	formatter *formatter.Formatter
	meta      *metadata.Store

	descriptors []*reflection.Descriptor
	byName      map[string]*reflection.Descriptor
	bySimple    map[string][]*reflection.Descriptor

	errs xerrors.List
}

// New creates a Builder for cfg
func New(logger *slog.Logger, cfg *config.Config) (*Builder, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	b := &Builder{
		logger:    logger,
		cfg:       cfg,
		scanner:   scanner.New(cfg.Parser),
		mapper:    typemap.New(cfg.TypeTable()),
		renderer:  renderer,
		formatter: formatter.New(cfg.Format.ClangFormat, cfg.Format.Style),
		byName:    map[string]*reflection.Descriptor{},
		bySimple:  map[string][]*reflection.Descriptor{},
	}
	b.mapper.SetResolver(b.canonicalName)
	return b, nil
}

// Run walks the source directory and builds everything found
func (b *Builder) Run() (*Result, error) {
	sources, err := walker.Walk(b.cfg.SourceDir, b.cfg.Ignore, b.cfg.Extensions)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("found sources", "dir", b.cfg.SourceDir, "count", len(sources))
	return b.Build(sources)
}

// Build scans sources in order, resolves the reflected types and writes
// the outputs. Any error suppresses every write, including metadata; the
// returned error then holds all problems found.
func (b *Builder) Build(sources []walker.Source) (*Result, error) {
	b.loadMetadata()
	if descs, err := b.Analyze(sources); err != nil {
		return &Result{Descriptors: descs}, err
	}

	outputs, skipped := b.stage()
	res := &Result{Descriptors: b.descriptors, Skipped: skipped}
	if err := b.errs.ToError(); err != nil {
		return res, err
	}

	written, err := b.write(outputs)
	res.Written = written
	return res, err
}

// Analyze scans sources and resolves the reflected types found, without
// staging or writing anything. Resolution only starts when every source
// scanned cleanly.
func (b *Builder) Analyze(sources []walker.Source) ([]*reflection.Descriptor, error) {
	b.scan(sources)
	if err := b.errs.ToError(); err != nil {
		return b.descriptors, err
	}
	for _, d := range b.descriptors {
		b.resolve(d)
	}
	return b.descriptors, b.errs.ToError()
}

func (b *Builder) loadMetadata() {
	meta, err := metadata.Load(b.cfg.MetadataFile)
	if err != nil {
		err = reflection.WrapError(reflection.ErrMetadataIO, b.cfg.MetadataFile, -1, err, "starting with empty metadata")
		b.logger.Warn("failed to read metadata", "error", err)
	}
	b.meta = meta
}

// scan fills the registry. Duplicate qualified names are reported once
// per name, naming every file that declares it.
func (b *Builder) scan(sources []walker.Source) {
	var dups []string
	seen := map[string][]*reflection.Descriptor{}
	for _, src := range sources {
		descs, err := b.scanner.ScanFile(src.Path, src.Rel)
		b.addErrors(err)
		for _, d := range descs {
			name := d.QualifiedName()
			b.logger.Debug("found reflected type", "kind", d.Kind, "name", name, "file", d.File)
			if len(seen[name]) == 1 {
				dups = append(dups, name)
			}
			seen[name] = append(seen[name], d)
			if _, ok := b.byName[name]; ok {
				continue
			}
			b.byName[name] = d
			b.bySimple[d.SimpleName()] = append(b.bySimple[d.SimpleName()], d)
			b.descriptors = append(b.descriptors, d)
		}
	}
	for _, name := range dups {
		var places []string
		for _, d := range seen[name] {
			places = append(places, fmt.Sprintf("%s@%d", d.File, d.Offset))
		}
		first := seen[name][0]
		b.errs.Add(reflection.NewError(reflection.ErrScan, first.File, first.Offset,
			"duplicate reflected type %s declared at %s", name, strings.Join(places, ", ")))
	}
}

func (b *Builder) addErrors(err error) {
	if err == nil {
		return
	}
	if list, ok := err.(xerrors.List); ok {
		for _, e := range list {
			b.errs.Add(e)
		}
		return
	}
	b.errs.Add(err)
}

// stage renders every descriptor of the sources that changed. A source
// is regenerated as a whole when any of its types is stale, so its
// companion files never lose the types that did not change.
func (b *Builder) stage() ([]*output, []string) {
	var order []string
	bySource := map[string][]*reflection.Descriptor{}
	for _, d := range b.descriptors {
		if _, ok := bySource[d.File]; !ok {
			order = append(order, d.File)
		}
		bySource[d.File] = append(bySource[d.File], d)
	}

	var outputs []*output
	var skipped []string
	for _, file := range order {
		descs := bySource[file]
		stale := slices.ContainsFunc(descs, func(d *reflection.Descriptor) bool {
			return b.meta.Stale(d.QualifiedName(), d.MTime)
		})
		if !stale {
			for _, d := range descs {
				b.logger.Info(fmt.Sprintf("Skipping %s: up to date", d.QualifiedName()), "file", file)
				skipped = append(skipped, d.QualifiedName())
			}
			continue
		}

		out := &output{source: file}
		for _, lang := range render.Languages {
			sections := make([]string, 0, len(descs))
			for _, d := range descs {
				text, err := b.renderer.Type(lang, d)
				if err != nil {
					b.errs.Add(err)
					continue
				}
				sections = append(sections, text)
			}
			text, err := b.renderer.File(lang, file, sections)
			if err != nil {
				b.errs.Add(err)
				continue
			}
			path := b.outputPath(lang, file)
			if lang == render.Cpp && b.formatter.Enabled() {
				formatted, err := b.formatter.Format(context.Background(), path, text)
				if err != nil {
					b.logger.Warn("leaving output unformatted", "path", path, "error", err)
				} else {
					text = formatted
				}
			}
			out.files = append(out.files, outputFile{path: path, content: text})
		}
		outputs = append(outputs, out)
	}
	return outputs, skipped
}

func (b *Builder) outputPath(lang render.Language, source string) string {
	dir := b.cfg.CppOutDir
	if lang == render.CSharp {
		dir = b.cfg.CSharpOutDir
	}
	return filepath.Join(dir, filepath.FromSlash(utils.StripExtension(source)+lang.Extension()))
}
