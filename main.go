package main

import "github.com/user/missions-helper/cmd"

func main() {
	cmd.Execute()
}
