// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"slices"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"
)

const unitType = "task.Unit"

// fileView is the template input for one table.
type fileView struct {
	Source     string
	Package    string
	Task       string
	StdImports []string
	ExtImports []string
	Ops        []opView
}

// opView is one operation with every spelling the template needs.
type opView struct {
	Name    string
	Var     string // exported task.Op variable
	ArgType string // A of task.Op[A, R]
	RetType string // R of task.Op[A, R]
	Struct  string // argument struct name, multi-argument ops only
	Fields  []Arg  // argument struct fields, exported names
	Params  string // "a string, b int"
	Pack    string // caller-side expression of type ArgType
	Unpack  string // worker-side argument list built from arg
	Returns bool
}

func newFileView(s *Table, source string) fileView {
	v := fileView{
		Source:  source,
		Package: s.Package,
		Task:    s.Task,
	}
	for _, p := range importsOf(s) {
		if isStdPath(p) {
			v.StdImports = append(v.StdImports, p)
		} else {
			v.ExtImports = append(v.ExtImports, p)
		}
	}
	for _, op := range s.Ops {
		v.Ops = append(v.Ops, newOpView(s.Task, op))
	}
	return v
}

func newOpView(taskName string, op OpDecl) opView {
	o := opView{
		Name:    op.Name,
		Var:     taskName + op.Name + "Op",
		RetType: op.Returns,
		Returns: op.Returns != "",
	}
	if !o.Returns {
		o.RetType = unitType
	}
	params := make([]string, len(op.Args))
	for i, a := range op.Args {
		params[i] = a.Name + " " + a.Type
	}
	o.Params = strings.Join(params, ", ")

	switch len(op.Args) {
	case 0:
		o.ArgType = unitType
		o.Pack = unitType + "{}"
	case 1:
		o.ArgType = op.Args[0].Type
		o.Pack = op.Args[0].Name
		o.Unpack = "arg"
	default:
		o.Struct = taskName + op.Name + "Args"
		o.ArgType = o.Struct
		pack := make([]string, len(op.Args))
		unpack := make([]string, len(op.Args))
		for i, a := range op.Args {
			f := exportName(a.Name)
			o.Fields = append(o.Fields, Arg{Name: f, Type: a.Type})
			pack[i] = f + ": " + a.Name
			unpack[i] = "arg." + f
		}
		o.Pack = o.Struct + "{" + strings.Join(pack, ", ") + "}"
		o.Unpack = strings.Join(unpack, ", ")
	}
	return o
}

func importsOf(s *Table) []string {
	imports := []string{"context", "time", "code.hybscloud.com/handoff/task"}
	for _, p := range s.Imports {
		if !slices.Contains(imports, p) {
			imports = append(imports, p)
		}
	}
	return imports
}

// isStdPath reports whether p looks like a standard library import path:
// no dot in its first element.
func isStdPath(p string) bool {
	first, _, _ := strings.Cut(p, "/")
	return !strings.Contains(first, ".")
}

// exportName upper-cases the first rune of name.
func exportName(name string) string {
	r, n := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[n:]
}

// Render returns the gofmt-ed Go source for s. source names the table file
// in the generated header.
func Render(s *Table, source string) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, newFileView(s, source)); err != nil {
		return nil, fmt.Errorf("gen: render %s: %w", s.Task, err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: format %s: %w", s.Task, err)
	}
	return out, nil
}

var fileTemplate = template.Must(template.New("task").Parse(`// Code generated by taskgen from {{.Source}}. DO NOT EDIT.

package {{.Package}}

import (
{{- range .StdImports}}
	"{{.}}"
{{- end}}
{{range .ExtImports}}
	"{{.}}"
{{- end}}
)

{{$task := .Task -}}
// {{$task}}Table is the operation table of {{$task}} workers.
var {{$task}}Table = task.NewTable("{{$task}}")

// Operations of {{$task}} workers, usable with [task.Call] and the
// [task.CallBind] effects.
var (
{{- range .Ops}}
	{{.Var}} = task.Declare[{{.ArgType}}, {{.RetType}}]({{$task}}Table, "{{.Name}}")
{{- end}}
)
{{range .Ops}}{{if .Struct}}
// {{.Struct}} are the arguments of {{$task}}.{{.Name}}.
type {{.Struct}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}
{{end}}{{end}}
// {{$task}}Server implements every {{$task}} operation.
type {{$task}}Server interface {
{{- range .Ops}}
	{{.Name}}({{.Params}}){{if .Returns}} {{.RetType}}{{end}}
{{- end}}
}

// {{$task}}Impls is a total set of {{$task}} implementations.
type {{$task}}Impls struct {
	impls task.Impls
}

// New{{$task}}Impls binds srv to every {{$task}} operation.
func New{{$task}}Impls(srv {{$task}}Server) {{$task}}Impls {
	return {{$task}}Impls{impls: {{$task}}Table.MustImpls(
{{- range .Ops}}
		task.Implement({{.Var}}, func(arg {{.ArgType}}) {{.RetType}} {
{{- if .Returns}}
			return srv.{{.Name}}({{.Unpack}})
{{- else}}
			srv.{{.Name}}({{.Unpack}})
			return task.Unit{}
{{- end}}
		}),
{{- end}}
	)}
}

// {{$task}}Task is a caller's handle on one {{$task}} worker.
type {{$task}}Task struct {
	h *task.Handle
}

// Start{{$task}}Task starts a new {{$task}} worker running body.
func Start{{$task}}Task(body func(sel *{{$task}}Selector), opts ...task.Option) *{{$task}}Task {
	h := task.Start({{$task}}Table, func(sel *task.Selector) {
		body(&{{$task}}Selector{sel: sel})
	}, opts...)
	return &{{$task}}Task{h: h}
}

// Serve{{$task}}Task starts a new {{$task}} worker serving srv until every
// handle is closed.
func Serve{{$task}}Task(srv {{$task}}Server, opts ...task.Option) *{{$task}}Task {
	impls := New{{$task}}Impls(srv)
	return Start{{$task}}Task(func(sel *{{$task}}Selector) {
		_ = sel.Serve(context.Background(), impls)
	}, opts...)
}

// New{{$task}}Task creates a new {{$task}} worker without running it.
func New{{$task}}Task(opts ...task.Option) (*{{$task}}Task, *{{$task}}Selector) {
	h, sel := task.New({{$task}}Table, opts...)
	return &{{$task}}Task{h: h}, &{{$task}}Selector{sel: sel}
}

// Handle returns the underlying task handle.
func (t *{{$task}}Task) Handle() *task.Handle { return t.h }

// Clone returns another handle on the same worker.
func (t *{{$task}}Task) Clone() *{{$task}}Task { return &{{$task}}Task{h: t.h.Clone()} }

// Close releases this handle.
func (t *{{$task}}Task) Close() { t.h.Close() }

// Wait blocks until the worker has stopped.
func (t *{{$task}}Task) Wait() error { return t.h.Wait() }
{{range .Ops}}
// {{.Name}} calls {{$task}}.{{.Name}} on the worker.
{{- if .Returns}}
func (t *{{$task}}Task) {{.Name}}({{.Params}}) ({{.RetType}}, error) {
	return task.Call(t.h, {{.Var}}, {{.Pack}})
}
{{- else}}
func (t *{{$task}}Task) {{.Name}}({{.Params}}) error {
	_, err := task.Call(t.h, {{.Var}}, {{.Pack}})
	return err
}
{{- end}}
{{end}}
// {{$task}}Selector is the worker side of one {{$task}} task.
type {{$task}}Selector struct {
	sel *task.Selector
}

// Selector returns the underlying task selector.
func (s *{{$task}}Selector) Selector() *task.Selector { return s.sel }

// SelectBlocking serves one request.
func (s *{{$task}}Selector) SelectBlocking(impls {{$task}}Impls) error {
	return s.sel.SelectBlocking(impls.impls)
}

// SelectTimeout serves one request or gives up after d.
func (s *{{$task}}Selector) SelectTimeout(d time.Duration, impls {{$task}}Impls) error {
	return s.sel.SelectTimeout(d, impls.impls)
}

// TrySelect serves one request if one is queued.
func (s *{{$task}}Selector) TrySelect(impls {{$task}}Impls) error {
	return s.sel.TrySelect(impls.impls)
}

// Serve serves requests until every handle is closed or ctx is done.
func (s *{{$task}}Selector) Serve(ctx context.Context, impls {{$task}}Impls) error {
	return s.sel.Serve(ctx, impls.impls)
}

// Runner returns an ifrit runner serving impls.
func (s *{{$task}}Selector) Runner(impls {{$task}}Impls) *task.Runner {
	return task.NewRunner(s.sel, impls.impls)
}

// Close stops the worker.
func (s *{{$task}}Selector) Close() { s.sel.Close() }
`))
