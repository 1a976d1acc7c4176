// Package main is the entry point for eventcast.
package main

import (
	"github.com/eventcast/eventcast/cmd"
	"github.com/eventcast/eventcast/config"
	"github.com/eventcast/eventcast/internal/sweep"
	"github.com/eventcast/eventcast/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go sweep.CollectGarbage()

	cmd.Execute()
}
