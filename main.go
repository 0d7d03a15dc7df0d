package main

import (
	"os"

	"robotdriver/presentation/cli"
)

func main() {
	os.Exit(cli.Execute())
}
