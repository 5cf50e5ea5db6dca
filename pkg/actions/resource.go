package actions

import (
	"github.com/arthur-debert/jrename/pkg/rules"
)

// Rename moves resources that live in renamed package directories,
// content untouched.
type Rename struct {
	rules *rules.RuleSet
}

// NewRename creates the rename action.
func NewRename(rs *rules.RuleSet) *Rename {
	return &Rename{rules: rs}
}

func (a *Rename) Kind() Kind { return KindRename }

func (a *Rename) Apply(p string, _ []byte) (Result, error) {
	if newPath, moved := renamePath(a.rules.Matcher(), p); moved {
		return Result{OutputPath: newPath}, nil
	}
	return Result{}, nil
}

// Signature drops JAR signature files, which a transformed archive
// invalidates.
type Signature struct{}

func (Signature) Kind() Kind { return KindSignature }

func (Signature) Apply(string, []byte) (Result, error) {
	return Result{Removed: true}, nil
}

// Container hands nested archives back to the orchestrator.
type Container struct {
	run func(path string, data []byte) (Result, error)
}

// NewContainer creates the nested archive action around run.
func NewContainer(run func(path string, data []byte) (Result, error)) *Container {
	return &Container{run: run}
}

func (a *Container) Kind() Kind { return KindContainer }

func (a *Container) Apply(p string, data []byte) (Result, error) {
	return a.run(p, data)
}
