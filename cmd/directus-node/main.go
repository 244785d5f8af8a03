package main

import (
	"os"

	"github.com/directus-community/directus-node/cmd/directus-node/commands"
)

// Version is the current version of directus-node. It must match the git tag
// when creating releases.
const Version = "v0.1.0"

func main() {
	commands.SetVersion(Version)

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
