package main

import "github.com/ziggythehamster/tf2-bot-detector/cmd"

func main() {
	cmd.Execute()
}
