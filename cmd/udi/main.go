package main

import (
	"os"

	"github.com/hashicorp-forge/udi/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
