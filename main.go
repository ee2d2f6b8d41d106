package main

import "github.com/naka-gawa/github-contributor-stats/cmd"

func main() {
	cmd.Execute()
}
