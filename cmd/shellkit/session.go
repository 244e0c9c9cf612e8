package main

import (
	"fmt"

	"shellkit/internal/config"
	"shellkit/internal/goeval"
	"shellkit/internal/history"
	"shellkit/internal/output"
	"shellkit/internal/shell"
)

// newShell wires a controller for cfg that writes to sink. The caller
// closes the returned history.
func newShell(cfg *config.Config, sink output.Sink, echo bool) (*shell.Controller, *history.Buffer, error) {
	hist := history.Open(cfg.History)

	router := output.NewRouter(sink, output.Options{
		NoValue:    cfg.Shell.NoValue,
		AutoScroll: cfg.Output.AutoScroll,
	})
	ev := goeval.New(goeval.WithAllowedPackages(cfg.Eval.AllowedPackages...))

	opts := shell.DefaultOptions()
	opts.Name = cfg.Shell.Name
	opts.Banner = cfg.Shell.Banner
	opts.Prompt = cfg.Shell.Prompt
	opts.Continuation = cfg.Shell.Continuation
	opts.EchoInput = echo

	ctrl, err := shell.New(ev, router, hist, nil, opts)
	if err != nil {
		_ = hist.Close()
		return nil, nil, fmt.Errorf("failed to start shell: %w", err)
	}
	return ctrl, hist, nil
}
