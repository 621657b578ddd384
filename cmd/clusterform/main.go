// Package main is the entry point for the clusterform CLI.
//
// clusterform generates deployable stack templates (AWS CloudFormation or
// Terraform for Hetzner Cloud) for clusters whose nodes carry control, data,
// router and coordination roles, with the coordination role backed by an
// etcd quorum of addressable nodes.
//
// Commands: generate, plan, init, version, completion.
//
// For detailed usage information, run:
//
//	clusterform --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/clusterform/cmd/clusterform/commands"
	"github.com/imamik/clusterform/cmd/clusterform/handlers"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(handlers.ExitCode(err))
	}
}
