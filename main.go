package main

import (
	"os"

	"github/itish2003/localassist/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
