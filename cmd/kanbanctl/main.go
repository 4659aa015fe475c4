package main

import (
	"os"

	"github.com/julianrazif/kanban-mono-repo/internal/ctl"
)

func main() {
	os.Exit(ctl.Run(os.Args[1:], ctl.Env{
		Stdin:   os.Stdin,
		StdinFD: int(os.Stdin.Fd()),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
	}))
}
