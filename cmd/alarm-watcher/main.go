package main

import "github.com/oshokin/alarm-notifier/cmd/alarm-watcher/cmd"

func main() {
	cmd.Execute()
}
