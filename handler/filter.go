package handler

import (
	"fmt"
	"strings"

	"github.com/elmarx/slog-kickstarter/core"
)

// DirectiveError describes a malformed rule inside a level directive
// string. Directive parsing fails loudly at startup instead of
// silently degrading, so log configuration mistakes are visible
// immediately.
type DirectiveError struct {
	Rule string
	Err  error
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("invalid log directive rule %q: %v", e.Rule, e.Err)
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}

type rule struct {
	module string
	level  core.Level
}

// setRule replaces the level of an existing rule for the module, or
// appends a new one. Insertion order is preserved; the most recently
// added level for a module wins.
func setRule(rules []rule, module string, level core.Level) []rule {
	for i := range rules {
		if rules[i].module == module {
			rules[i].level = level
			return rules
		}
	}
	return append(rules, rule{module: module, level: level})
}

// Resolver computes the effective minimum level for a module. It
// holds two layers of settings: builder-time (default level plus
// per-module overrides) and a runtime directive (again a default
// plus per-module rules). The directive layer always wins over the
// builder layer; within each layer a per-module rule wins over the
// layer's default.
type Resolver struct {
	builderDefault      core.Level
	builderModules      []rule
	directiveDefault    core.Level
	hasDirectiveDefault bool
	directiveModules    []rule
}

// NewResolver creates a resolver with the given builder-time default
// level.
func NewResolver(defaultLevel core.Level) *Resolver {
	return &Resolver{builderDefault: defaultLevel}
}

// SetModule records a builder-time per-module override. The module
// name is matched exactly against the emitting package's import
// path.
func (r *Resolver) SetModule(module string, level core.Level) {
	r.builderModules = setRule(r.builderModules, module, level)
}

// ParseDirective parses a comma-separated directive string of the
// form "level" or "module=level" into the directive layer. Later
// rules replace earlier ones for the same module (or the same global
// default). An unparsable rule aborts with a DirectiveError; empty
// segments are ignored.
func (r *Resolver) ParseDirective(directive string) error {
	for _, raw := range strings.Split(directive, ",") {
		seg := strings.TrimSpace(raw)
		if seg == "" {
			continue
		}

		module, levelName, isModuleRule := strings.Cut(seg, "=")
		if !isModuleRule {
			level, err := core.ParseLevel(seg)
			if err != nil {
				return &DirectiveError{Rule: seg, Err: err}
			}
			r.directiveDefault = level
			r.hasDirectiveDefault = true
			continue
		}

		module = strings.TrimSpace(module)
		levelName = strings.TrimSpace(levelName)
		if module == "" {
			return &DirectiveError{Rule: seg, Err: fmt.Errorf("missing module name")}
		}
		if strings.Contains(levelName, "=") {
			return &DirectiveError{Rule: seg, Err: fmt.Errorf("multiple '=' separators")}
		}
		level, err := core.ParseLevel(levelName)
		if err != nil {
			return &DirectiveError{Rule: seg, Err: err}
		}
		r.directiveModules = setRule(r.directiveModules, module, level)
	}
	return nil
}

// Threshold returns the effective minimum level for the given module
// path. Precedence, lowest to highest: builder default, builder
// per-module override, directive default, directive per-module rule.
func (r *Resolver) Threshold(module string) core.Level {
	for _, rl := range r.directiveModules {
		if rl.module == module {
			return rl.level
		}
	}
	if r.hasDirectiveDefault {
		return r.directiveDefault
	}
	for _, rl := range r.builderModules {
		if rl.module == module {
			return rl.level
		}
	}
	return r.builderDefault
}

// MinLevel returns the lowest threshold any module can have. Loggers
// use it as a cheap pre-filter before resolving the caller's module.
func (r *Resolver) MinLevel() core.Level {
	min := r.builderDefault
	if r.hasDirectiveDefault {
		// A directive default shadows the whole builder layer.
		min = r.directiveDefault
	}
	for _, rl := range r.directiveModules {
		if rl.level < min {
			min = rl.level
		}
	}
	if !r.hasDirectiveDefault {
		for _, rl := range r.builderModules {
			if rl.level < min {
				min = rl.level
			}
		}
	}
	return min
}

// LevelFilter is a drain middleware that drops entries below the
// effective threshold of their origin module and forwards the rest.
type LevelFilter struct {
	next     Handler
	resolver *Resolver
	recycle  bool
}

// NewLevelFilter wraps next with per-module level filtering.
func NewLevelFilter(next Handler, resolver *Resolver) *LevelFilter {
	f := &LevelFilter{next: next, resolver: resolver}
	if rc, ok := next.(EntryRecycler); ok {
		f.recycle = rc.CanRecycleEntry()
	}
	return f
}

// Handle drops the entry if its level is below the threshold of its
// origin module, otherwise forwards it to the wrapped drain.
func (f *LevelFilter) Handle(entry *core.Entry) error {
	if entry.Level < f.resolver.Threshold(entry.Module) {
		return nil
	}
	return f.next.Handle(entry)
}

// CanRecycleEntry reports whether the wrapped drain fully consumes
// entries before Handle returns. Dropped entries are always safe to
// recycle.
func (f *LevelFilter) CanRecycleEntry() bool {
	return f.recycle
}

// Close closes the wrapped drain.
func (f *LevelFilter) Close() error {
	return f.next.Close()
}
