package main

import (
	"time"

	"github.com/jailmon-project/jailmon/cmd/jailmon"
	_ "github.com/jailmon-project/jailmon/pkg/logger"
	"github.com/rs/zerolog/log"
)

// Values for version are injected by the build.
var (
	VERSION = ""
)

func main() {
	start := time.Now()
	log.Trace().Msgf("Top of execution - %s", start.UTC())
	jailmon.Execute(VERSION)
	log.Trace().Msgf("Execution finished - %s", time.Since(start))
}
