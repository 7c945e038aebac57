// main is the entry point for the osscompass CLI.
package main

import (
	"github.com/huangsam/osscompass/cmd"
	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/internal/iocache"
)

func main() {
	err := cmd.Execute()
	iocache.CloseCaching()
	if err != nil {
		contract.LogFatal("Error running osscompass", err)
	}
}
