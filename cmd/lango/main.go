// Copyright 2025 The Lango Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the lango dictionary lookup CLI.

lango answers English word and phrase lookups from a local copy of the
ECDICT dataset (SQLite or CSV) and fills the gaps with the Free Dictionary
API. Exact local matches always win; the online source only adds the English
definition or examples the local entry lacks, or answers on its own when the
dataset has nothing and no close spelling exists.

# Usage

Look up a word or phrase:

	lango hello
	lango "machine learning"

Show the English definition and up to 5 examples:

	lango -e -x -n 5 hello

Skip the local dataset entirely:

	lango --online hello

Run an interactive session:

	lango -i

# Dataset

On first use lango offers to download the ECDICT sqlite release (about
180MB) into the data directory. It can also be installed explicitly:

	lango setup
	lango setup --import ~/Downloads/ecdict-sqlite-28.zip

Without a dataset every lookup goes to the Free Dictionary API.

# Configuration

Settings live in <config dir>/lango/config.toml, created with defaults on
first run:

	[lookup]
	max_examples = 3
	suggestion_limit = 5

	[remote]
	enabled = true
	timeout_seconds = 5

	[cli]
	color = true
	log_level = "warn"

# Servers

lango serve answers msgpack lookup requests on stdin/stdout, see
pkg/server for the message format. lango mcp exposes the lookup_word tool
to MCP clients over stdio.

# Exit status

lango exits 1 when the local dataset cannot be read or setup fails. Words
that are not found are a normal result and exit 0.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/lango/internal/cli"
	"github.com/charmbracelet/log"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()

	if err := cli.Execute(context.Background()); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
