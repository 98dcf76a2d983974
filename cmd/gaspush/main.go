package main

import (
	"os"

	"github.com/dshills/gaspush/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
