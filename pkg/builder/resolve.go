package builder

import (
	"slices"
	"strings"

	"github.com/a13labs/hypgen/pkg/reflection"
	"github.com/a13labs/hypgen/pkg/utils"
)

// resolve links d to its reflected base, resolving that base first, and
// maps the type names of its members. Unknown bases are external types
// and are ignored.
func (b *Builder) resolve(d *reflection.Descriptor) {
	if d.Built() {
		return
	}
	// marked on entry so a malformed cycle of bases ends here
	d.MarkBuilt()

	var known []*reflection.Descriptor
	for _, base := range d.Bases {
		bd := b.lookup(d, base.Typename.Format())
		if bd == nil || bd == d || slices.Contains(known, bd) {
			continue
		}
		b.resolve(bd)
		known = append(known, bd)
	}
	switch {
	case len(known) > 1:
		names := make([]string, len(known))
		for i, k := range known {
			names[i] = k.QualifiedName()
		}
		b.errs.Add(reflection.NewError(reflection.ErrResolve, d.File, d.Offset,
			"%s has more than one reflected base: %s", d.QualifiedName(), strings.Join(names, ", ")))
	case len(known) == 1:
		d.ResolvedBase = known[0]
	}

	for _, m := range d.Members {
		switch m.Kind {
		case reflection.MemberField:
			m.TypeName = b.mapper.MapType(m.Type)
		case reflection.MemberMethod:
			m.ReturnTypeName = b.mapper.MapType(m.ReturnType)
			for i := range m.Parameters {
				if p := &m.Parameters[i]; p.TypeNode != nil {
					p.Type = b.mapper.MapType(p.TypeNode)
				}
			}
		}
	}
	b.logger.Debug("resolved", "name", d.QualifiedName(), "base", d.ResolvedBaseName())
}

// lookup finds the reflected type that name refers to from inside from.
// Names are matched on their last segment; when several types share it
// the one visible from the scope of from wins. A qualified name only
// matches types whose qualified name ends with it, so physx::Object
// never resolves to hyp::Object.
func (b *Builder) lookup(from *reflection.Descriptor, name string) *reflection.Descriptor {
	name = strings.TrimPrefix(strings.TrimSpace(name), "::")
	if d, ok := b.byName[name]; ok {
		return d
	}
	bare := utils.RemoveTemplateParams(name)
	candidates := b.bySimple[utils.LastSegment(name)]
	if len(utils.SplitPath(bare)) > 1 {
		candidates = slices.DeleteFunc(slices.Clone(candidates), func(d *reflection.Descriptor) bool {
			q := d.QualifiedName()
			return q != bare && !strings.HasSuffix(q, "::"+bare)
		})
	}
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	}
	if from != nil {
		scope := from.Scope
		for i := len(scope); i > 0; i-- {
			if d, ok := b.byName[utils.JoinPath(scope[:i])+"::"+bare]; ok {
				return d
			}
		}
	}
	for _, d := range candidates {
		if strings.HasSuffix(d.QualifiedName(), "::"+bare) {
			return d
		}
	}
	return candidates[0]
}

// canonicalName is the type name resolver of the mapper
func (b *Builder) canonicalName(name string) (string, bool) {
	if strings.ContainsAny(name, "<>") {
		return "", false
	}
	d := b.lookup(nil, name)
	if d == nil {
		return "", false
	}
	return d.QualifiedName(), true
}
