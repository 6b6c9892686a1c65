package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/danieljhkim/corpussplit/internal/cli"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), cli.NewRootCmd(version)); err != nil {
		os.Exit(1)
	}
}
