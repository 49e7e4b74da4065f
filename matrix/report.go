// Copyright 2026 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package matrix

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

// Status is the outcome of a scenario.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Result is the outcome of a single scenario.
type Result struct {
	Index    int
	Name     string
	Status   Status
	Message  string
	Duration time.Duration
}

// Report collects scenario results and echoes each one as it is recorded.
type Report struct {
	Results []Result
	Passed  int
	Failed  int
	Skipped int

	out io.Writer
}

// NewReport creates a Report printing to out.
func NewReport(out io.Writer) *Report {
	return &Report{out: out}
}

func (r *Report) record(res Result, mark string, c *color.Color) {
	r.Results = append(r.Results, res)
	line := fmt.Sprintf("  %s %d) %s", c.Sprint(mark), res.Index, res.Name)
	if res.Duration > 0 {
		line += fmt.Sprintf(" (%s)", res.Duration.Round(time.Millisecond))
	}
	if res.Message != "" {
		line += ": " + res.Message
	}
	fmt.Fprintln(r.out, line)
}

// Pass records a passing scenario.
func (r *Report) Pass(index int, name string, took time.Duration) {
	r.Passed++
	scenariosPassed.Inc(1)
	r.record(Result{Index: index, Name: name, Status: StatusPass, Duration: took}, "✓", green)
}

// Fail records a failing scenario.
func (r *Report) Fail(index int, name string, took time.Duration, err error) {
	r.Failed++
	scenariosFailed.Inc(1)
	r.record(Result{Index: index, Name: name, Status: StatusFail, Message: err.Error(), Duration: took}, "✗", red)
}

// Skip records a skipped scenario.
func (r *Report) Skip(index int, name, reason string) {
	r.Skipped++
	scenariosSkipped.Inc(1)
	r.record(Result{Index: index, Name: name, Status: StatusSkip, Message: reason}, "-", cyan)
}

// Print outputs the final summary.
func (r *Report) Print() {
	fmt.Fprintln(r.out, "==========================================")
	fmt.Fprintln(r.out, "Adapter Check Summary")
	fmt.Fprintln(r.out, "==========================================")
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  %s  %d\n", green.Sprint("Passed:"), r.Passed)
	fmt.Fprintf(r.out, "  %s  %d\n", red.Sprint("Failed:"), r.Failed)
	if r.Skipped > 0 {
		fmt.Fprintf(r.out, "  %s %d\n", cyan.Sprint("Skipped:"), r.Skipped)
	}
	fmt.Fprintln(r.out)

	switch {
	case r.Failed > 0:
		red.Fprintln(r.out, "Adapter checks failed. See errors above.")
		for _, res := range r.Results {
			if res.Status == StatusFail {
				fmt.Fprintf(r.out, "  %d) %s\n     %s\n", res.Index, res.Name, res.Message)
			}
		}
	case r.Passed == 0:
		yellow.Fprintln(r.out, "No scenario ran.")
	default:
		green.Fprintln(r.out, "All adapter checks passed.")
	}
	fmt.Fprintln(r.out)
}

// OK reports whether at least one scenario ran and none failed.
func (r *Report) OK() bool {
	return r.Failed == 0 && r.Passed > 0
}
