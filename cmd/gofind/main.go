package main

import (
	"os"

	"github.com/harrison/gofind/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:]))
}
