package script

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/suitebridge/stub"
	"github.com/roach88/suitebridge/suite"
)

// Options configures Load.
type Options struct {
	// Registry supplies fixtures; nil means DefaultRegistry().
	Registry Registry

	// Matcher overrides the call matching policy of every stub the suite
	// declares; nil keeps the stub package default.
	Matcher stub.Matcher

	// Logger receives log steps; nil discards them.
	Logger *slog.Logger

	// Output also receives the text of log steps, one line each, whatever
	// the logger's level. nil leaves log steps to the logger.
	Output io.Writer

	// Rand feeds random fixtures; nil means crypto/rand.
	Rand io.Reader
}

// Program is a loaded suite file ready to adapt.
type Program struct {
	Path        string
	Name        string
	Description string

	// Suite holds the file's own tests; tests from loaded files sit in its
	// prototype.
	Suite *suite.Suite

	env *Env
}

// Cases adapts the program's suite.
func (p *Program) Cases() ([]suite.TestCase, error) {
	return suite.Adapt(p.Suite)
}

// Stub returns a declared stub, or nil.
func (p *Program) Stub(name string) *stub.Stub {
	return p.env.stubs[name]
}

// StubNames returns the declared stub names, sorted.
func (p *Program) StubNames() []string {
	return p.env.StubNames()
}

// Var returns a variable's current value.
func (p *Program) Var(name string) (any, bool) {
	return p.env.Var(name)
}

// Load reads the suite file at path and everything it loads, builds the
// suite and creates fresh stubs for it.
func Load(path string, opts Options) (*Program, error) {
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Rand == nil {
		opts.Rand = rand.Reader
	}

	l := &loader{visited: map[string]bool{}, active: map[string]bool{}}
	if err := l.collect(path, nil); err != nil {
		return nil, err
	}
	root := l.files[len(l.files)-1]
	libs := l.files[:len(l.files)-1]

	env := &Env{
		vars:     map[string]any{},
		stubs:    map[string]*stub.Stub{},
		registry: opts.Registry,
		logger:   opts.Logger,
		output:   opts.Output,
		rand:     opts.Rand,
	}

	var stubOpts []stub.Option
	if opts.Matcher != nil {
		stubOpts = append(stubOpts, stub.WithMatcher(opts.Matcher))
	}

	s := suite.New()
	if len(libs) > 0 {
		proto := suite.New()
		for _, lib := range libs {
			for _, t := range lib.Tests {
				proto.Add(t.Name, env.body(t))
			}
		}
		s = proto.Extend()
	}
	for _, t := range root.Tests {
		s.Add(t.Name, env.body(t))
	}
	env.suite = s

	for _, f := range l.files {
		for name, v := range f.Vars {
			env.vars[name] = v
		}
		for _, name := range f.Stubs {
			if _, ok := env.stubs[name]; !ok {
				env.stubs[name] = stub.New(stubOpts...)
			}
		}
	}

	for _, f := range l.files {
		if err := validate(f, env); err != nil {
			return nil, err
		}
	}
	if err := checkRunCycles(l.files); err != nil {
		return nil, err
	}

	return &Program{
		Path:        root.Path,
		Name:        root.Name,
		Description: root.Description,
		Suite:       s,
		env:         env,
	}, nil
}

// loader reads files depth first so that every file follows the files it
// loads, and each file is read once.
type loader struct {
	files   []*File
	visited map[string]bool
	active  map[string]bool
}

func (l *loader) collect(path string, chain []string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return &LoadError{Path: path, Code: ErrCodeRead, Message: err.Error()}
	}
	if l.active[abs] {
		cycle := append(append([]string{}, chain...), path)
		return &LoadError{Path: path, Code: ErrCodeCycle, Message: "load cycle: " + strings.Join(cycle, " -> ")}
	}
	if l.visited[abs] {
		return nil
	}

	f, err := ReadFile(path)
	if err != nil {
		return err
	}

	l.active[abs] = true
	for _, dep := range f.Load {
		if !filepath.IsAbs(dep) {
			dep = filepath.Join(filepath.Dir(path), dep)
		}
		if err := l.collect(dep, append(chain, path)); err != nil {
			return err
		}
	}
	delete(l.active, abs)

	l.visited[abs] = true
	l.files = append(l.files, f)
	return nil
}

// validate checks the references a file's steps make, so broken suites
// fail at load time instead of mid-run.
func validate(f *File, env *Env) error {
	for _, t := range f.Tests {
		for _, step := range t.Steps {
			var problem, code string
			switch step.Op {
			case OpEval:
				if _, ok := env.registry[step.Fn]; !ok {
					problem, code = fmt.Sprintf("unknown fixture %q", step.Fn), ErrCodeUnknownFixture
				}
			case OpInvoke, OpAssertCalled:
				if _, ok := env.stubs[step.Stub]; !ok {
					problem, code = fmt.Sprintf("stub %q is not declared", step.Stub), ErrCodeUnknownStub
				}
			case OpRun:
				if _, ok := env.suite.Lookup(step.Target); !ok {
					problem, code = fmt.Sprintf("no test named %q", step.Target), ErrCodeUnknownTest
				}
			}
			if problem != "" {
				return &LoadError{Path: f.Path, Line: step.Line, Code: code, Message: fmt.Sprintf("test %q: %s", t.Name, problem)}
			}
		}
	}
	return nil
}

// checkRunCycles rejects tests whose run steps lead back to a test
// already running. Such a chain ends in a stack overflow, which a
// recovering TestCase.Run cannot catch.
func checkRunCycles(files []*File) error {
	// Resolve names the way Suite.Lookup does: later files and later
	// entries shadow earlier ones, and the root file is last.
	resolved := map[string]*Test{}
	for _, f := range files {
		for i := range f.Tests {
			resolved[f.Tests[i].Name] = &f.Tests[i]
		}
	}

	acyclic := map[string]bool{}
	var walk func(name string, active map[string]bool, chain []string) []string
	walk = func(name string, active map[string]bool, chain []string) []string {
		chain = append(chain, name)
		if active[name] {
			return chain
		}
		if acyclic[name] {
			return nil
		}
		active[name] = true
		for _, step := range resolved[name].Steps {
			if step.Op != OpRun {
				continue
			}
			if cycle := walk(step.Target, active, chain); cycle != nil {
				return cycle
			}
		}
		delete(active, name)
		acyclic[name] = true
		return nil
	}

	for _, f := range files {
		for i := range f.Tests {
			t := &f.Tests[i]
			active := map[string]bool{}
			if resolved[t.Name] == t {
				if acyclic[t.Name] {
					continue
				}
				active[t.Name] = true
			}
			for _, step := range t.Steps {
				if step.Op != OpRun {
					continue
				}
				if cycle := walk(step.Target, active, []string{t.Name}); cycle != nil {
					return &LoadError{
						Path:    f.Path,
						Line:    step.Line,
						Code:    ErrCodeRunCycle,
						Message: fmt.Sprintf("test %q: run cycle: %s", t.Name, strings.Join(cycle, " -> ")),
					}
				}
			}
			if resolved[t.Name] == t {
				acyclic[t.Name] = true
			}
		}
	}
	return nil
}

// FindFiles expands paths into suite files. Directories are walked in
// lexical order; files whose name starts with an underscore are shared
// files and skipped there, but are kept when named directly. A non-empty
// filter is a glob matched against the file name without extension.
func FindFiles(paths []string, filter string) ([]string, error) {
	var files []string

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("suite path %s: %w", root, err)
		}

		if !info.IsDir() {
			ok, err := matchFilter(root, filter)
			if err != nil {
				return nil, err
			}
			if ok {
				files = append(files, root)
			}
			continue
		}

		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != root && info.Name() == "golden" {
					return filepath.SkipDir
				}
				return nil
			}
			if !IsSuiteFile(path) || strings.HasPrefix(info.Name(), "_") {
				return nil
			}
			ok, err := matchFilter(path, filter)
			if err != nil {
				return err
			}
			if ok {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func matchFilter(path, filter string) (bool, error) {
	if filter == "" {
		return true, nil
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	matched, err := filepath.Match(filter, name)
	if err != nil {
		return false, fmt.Errorf("invalid filter pattern: %w", err)
	}
	return matched, nil
}
