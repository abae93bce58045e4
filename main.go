package main

import (
	"os"

	"github.com/urfave/cli/v2"
)

// Each command file registers itself here from its init func.
var commands []*cli.Command

func main() {
	app := &cli.App{
		Name:                   "pencilc",
		Usage:                  "Compile Pencil drawing programs to canvas JavaScript",
		Version:                "1.0.0",
		EnableBashCompletion:   true,
		UseShortOptionHandling: true,
		Commands:               commands,
	}

	err := app.Run(os.Args)
	if err != nil {
		panic(err)
	}
}
