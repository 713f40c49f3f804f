package main

import (
	"os"

	"github.com/Carmen-Shannon/hellogl/cmd/internal/cli"
	"github.com/Carmen-Shannon/hellogl/engine/gpu"
)

func main() {
	os.Exit(cli.Run(os.Args, os.Stdout, cli.BackendOptions(gpu.BackendTypeGL)...))
}
