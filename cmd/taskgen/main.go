// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command taskgen expands a YAML operation table into typed task code.
//
// Usage:
//
//	//go:generate go run code.hybscloud.com/handoff/cmd/taskgen -in echo.yaml
//
// The output defaults to the input path with "_task.go" in place of the
// extension.
package main

import (
	"bytes"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"code.hybscloud.com/handoff/internal/gen"
)

var (
	in      = flag.String("in", "", "operation table (YAML)")
	out     = flag.String("out", "", "generated Go file (default <in>_task.go)")
	verbose = flag.Bool("v", false, "enable verbose logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("component", "taskgen")

	if *in == "" {
		logger.Error("missing -in")
		flag.Usage()
		os.Exit(2)
	}
	dst := *out
	if dst == "" {
		dst = strings.TrimSuffix(*in, filepath.Ext(*in)) + "_task.go"
	}

	tbl, err := gen.Load(*in)
	if err != nil {
		logger.Error("load table", "error", err)
		os.Exit(1)
	}
	src, err := gen.Render(tbl, filepath.Base(*in))
	if err != nil {
		logger.Error("render table", "table", *in, "error", err)
		os.Exit(1)
	}

	if prev, err := os.ReadFile(dst); err == nil && bytes.Equal(prev, src) {
		logger.Debug("output unchanged", "out", dst)
		return
	}
	if err := os.WriteFile(dst, src, 0o644); err != nil {
		logger.Error("write output", "out", dst, "error", err)
		os.Exit(1)
	}
	logger.Info("generated", "task", tbl.Task, "ops", len(tbl.Ops), "out", dst)
}
