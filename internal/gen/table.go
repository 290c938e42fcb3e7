// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package gen expands a declarative operation table into typed task code.
//
// A table is a YAML document:
//
//	package: echo
//	task: Echo
//	ops:
//	  - name: Noop
//	  - name: Echo
//	    args: [{name: s, type: string}]
//	    returns: string
//
// [Render] turns it into a Go file with one [task.Op] per operation, a
// caller wrapper with one method per operation, and a selector wrapper
// whose implementations are checked for totality by the compiler.
//
// [task.Op]: code.hybscloud.com/handoff/task.Op
package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"os"

	"gopkg.in/yaml.v3"
)

// Table is one operation table.
type Table struct {
	// Package is the package clause of the generated file.
	Package string `yaml:"package"`
	// Task names the worker kind; it prefixes every generated identifier.
	Task string `yaml:"task"`
	// Imports are extra import paths needed by argument or return types.
	Imports []string `yaml:"imports,omitempty"`
	Ops     []OpDecl `yaml:"ops"`
}

// OpDecl declares one operation.
type OpDecl struct {
	Name    string `yaml:"name"`
	Args    []Arg  `yaml:"args,omitempty"`
	Returns string `yaml:"returns,omitempty"`
}

// Arg is one named argument.
type Arg struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ErrInvalidTable is wrapped by every validation failure.
var ErrInvalidTable = errors.New("gen: invalid table")

// reserved are identifiers the generated method bodies use themselves.
var reserved = map[string]bool{
	"t": true, "arg": true, "srv": true, "err": true, "task": true,
}

// wrapperMethods are methods every generated task wrapper already has.
var wrapperMethods = map[string]bool{
	"Handle": true, "Clone": true, "Close": true, "Wait": true,
}

// Parse decodes and validates a YAML table. Unknown fields are rejected.
func Parse(data []byte) (*Table, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Table
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("gen: decode table: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the table at path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gen: read table %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks that every name is a usable Go identifier, operation
// names are unique and exported, and every argument is typed.
func (s *Table) Validate() error {
	if !isIdent(s.Package) {
		return fmt.Errorf("%w: package %q is not an identifier", ErrInvalidTable, s.Package)
	}
	if !isIdent(s.Task) || !token.IsExported(s.Task) {
		return fmt.Errorf("%w: task %q is not an exported identifier", ErrInvalidTable, s.Task)
	}
	if len(s.Ops) == 0 {
		return fmt.Errorf("%w: task %s has no operations", ErrInvalidTable, s.Task)
	}
	seen := make(map[string]bool, len(s.Ops))
	for _, op := range s.Ops {
		if !isIdent(op.Name) || !token.IsExported(op.Name) {
			return fmt.Errorf("%w: operation %q is not an exported identifier", ErrInvalidTable, op.Name)
		}
		if wrapperMethods[op.Name] {
			return fmt.Errorf("%w: operation name %s is taken by the task wrapper", ErrInvalidTable, op.Name)
		}
		if seen[op.Name] {
			return fmt.Errorf("%w: duplicate operation %s", ErrInvalidTable, op.Name)
		}
		seen[op.Name] = true
		args := make(map[string]bool, len(op.Args))
		fields := make(map[string]bool, len(op.Args))
		for _, a := range op.Args {
			if !isIdent(a.Name) || reserved[a.Name] {
				return fmt.Errorf("%w: %s: argument name %q is not usable", ErrInvalidTable, op.Name, a.Name)
			}
			if args[a.Name] {
				return fmt.Errorf("%w: %s: duplicate argument %s", ErrInvalidTable, op.Name, a.Name)
			}
			args[a.Name] = true
			f := exportName(a.Name)
			if fields[f] {
				return fmt.Errorf("%w: %s: arguments collide on field %s", ErrInvalidTable, op.Name, f)
			}
			fields[f] = true
			if a.Type == "" {
				return fmt.Errorf("%w: %s: argument %s has no type", ErrInvalidTable, op.Name, a.Name)
			}
		}
	}
	return nil
}

func isIdent(name string) bool {
	return token.IsIdentifier(name) && name != "_"
}
