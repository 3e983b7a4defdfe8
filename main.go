package main

import (
	"os"

	"github.com/jmcampanini/ghfetch/cmd"
)

func main() {
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
