package main

import (
	"context"

	"github.com/cube2222/octograph/cmd"
	"github.com/cube2222/octograph/logs"
)

func main() {
	logs.InitializeFileLogger()
	defer logs.CloseLogger()

	cmd.Execute(context.Background())
}
