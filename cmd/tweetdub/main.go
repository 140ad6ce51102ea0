package main

import "github.com/forPelevin/tweetdub/internal/cli"

func main() {
	cli.Main()
}
