package main

import (
	"github.com/taskflow/taskflow/cli/cmd"
)

func main() {
	cmd.Execute()
}
