package main

import "github.com/futig/interview-backend/internal/cli"

func main() {
	cli.Execute()
}
