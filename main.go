package main

import "github.com/sammcj/hfscout/cli"

// Set at build time with -ldflags "-X main.Version=..."
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	cli.SetVersion(Version, BuildDate, GitCommit)
	cli.Execute()
}
