package main

import "github.com/KaramelBytes/dataexplorer/cmd"

func main() {
	cmd.Execute()
}
