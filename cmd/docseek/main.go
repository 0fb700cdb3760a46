package main

import "docseek/internal/cli"

func main() {
	cli.Execute()
}
