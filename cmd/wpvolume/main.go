package main

import (
	"os"

	"wpvolume/internal/adapter/primary/cli"
)

func main() {
	os.Exit(cli.Execute())
}
