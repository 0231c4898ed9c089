package main

import (
	"os"

	"github.com/jonwraymond/toolcache/cli"
)

func main() {
	os.Exit(cli.Run())
}
