package main

import (
	"github.com/dyike/ScoutGo/internal/cli"
)

func main() {
	cli.Run()
}
