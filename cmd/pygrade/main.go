package main

import (
	"os"

	"pygrade/internal/ui/cli"
)

func main() {
	os.Exit(cli.Execute())
}
