package main

import "github.com/KaramelBytes/adimpact-cli/cmd"

func main() {
	cmd.Execute()
}
