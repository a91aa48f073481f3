package classify

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jasongoodwin/dora/ast"
	"github.com/jasongoodwin/dora/parser"
)

// Rule is a compiled classification rule: the parsed tree plus the
// original source text, kept for diagnostics. Rules are immutable and
// safe to evaluate concurrently.
type Rule struct {
	Name   string
	Source string
	Expr   ast.Expr
}

// Compile parses rule source into an evaluable Rule. Parsing happens
// once per rule at configuration-load time; the result is cached by the
// Registry and reused for every packet.
func Compile(source string) (*Rule, error) {
	expr, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return &Rule{Source: source, Expr: expr}, nil
}

// Registry holds the compiled rules for all configured classes. Reload
// replaces the whole map with an atomic copy-on-write swap, so packet
// workers never observe a partially updated rule set.
type Registry struct {
	log   *zap.Logger
	rules atomic.Pointer[map[string]*Rule]
}

// NewRegistry returns an empty registry. A nil logger disables logging.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{log: log}
	empty := map[string]*Rule{}
	r.rules.Store(&empty)
	return r
}

// Load compiles the given class name -> rule source map and installs
// the result wholesale. A rule that fails to parse is logged and left
// out; the remaining rules still install. The joined compile errors are
// returned for the config layer to surface to the operator.
func (r *Registry) Load(sources map[string]string) error {
	next := make(map[string]*Rule, len(sources))
	var errs []error
	for name, src := range sources {
		rule, err := Compile(src)
		if err != nil {
			r.log.Error("skipping class with invalid match expression",
				zap.String("class", name), zap.Error(err))
			errs = append(errs, fmt.Errorf("class %q: %w", name, err))
			continue
		}
		rule.Name = name
		next[name] = rule
	}
	r.rules.Store(&next)
	return errors.Join(errs...)
}

// Rule returns the compiled rule for a class name.
func (r *Registry) Rule(name string) (*Rule, bool) {
	rule, ok := (*r.rules.Load())[name]
	return rule, ok
}

// Names returns the installed class names, sorted.
func (r *Registry) Names() []string {
	rules := *r.rules.Load()
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Match evaluates one class against a packet. Evaluation errors are
// fail-closed: the class does not match, the error is logged, and
// packet processing continues.
func (r *Registry) Match(name string, ctx PacketContext) bool {
	rule, ok := r.Rule(name)
	if !ok {
		return false
	}
	matched, err := Evaluate(rule.Expr, ctx)
	if err != nil {
		r.log.Warn("classification rule failed, treating as no match",
			zap.String("class", rule.Name),
			zap.String("rule", rule.Source),
			zap.Error(err))
		return false
	}
	return matched
}

// Matches returns the sorted names of all classes matching the packet.
func (r *Registry) Matches(ctx PacketContext) []string {
	var matched []string
	for _, name := range r.Names() {
		if r.Match(name, ctx) {
			matched = append(matched, name)
		}
	}
	return matched
}
