package main

import (
	"os"

	"github.com/wifibear/macbear/cmd"
)

var version = "dev"

func main() {
	os.Exit(cmd.Execute(version))
}
