package main

import "github.com/shaharia-lab/notificator/cmd"

func main() {
	cmd.Execute()
}
