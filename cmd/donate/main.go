package main

import (
	"os"

	"alcyxob/donation-share/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
