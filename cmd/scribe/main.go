package main

import (
	"os"

	"github.com/scribe-ci/scribe/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
