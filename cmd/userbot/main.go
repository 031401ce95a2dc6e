package main

import (
	"os"

	"github.com/shubhampopalghat/userbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
