// Package main is the entry point for the vitebridge CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/3-lines-studio/vitebridge/cmd/vitebridge/commands"
	"github.com/3-lines-studio/vitebridge/internal/adapters/cli"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	out := cli.NewOutput()
	c := commands.New(out)
	c.SetArgs(args)

	if err := c.Execute(ctx); err != nil {
		out.PrintError("%v", err)
		return 1
	}
	return 0
}
