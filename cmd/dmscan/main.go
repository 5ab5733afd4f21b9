package main

import (
	"os"

	"github.com/MeKo-Tech/dmscan/cmd/dmscan/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
