package main

import (
	"os"
	"strconv"

	"github.com/andrei-cloud/gotr31/cmd/tr31tool/cmd"
	"github.com/andrei-cloud/gotr31/internal/logging"
	"github.com/rs/zerolog/log"
)

// main initializes logging and dispatches to the cobra command tree.
func main() {
	debugEnv := os.Getenv("DEBUG")
	debug, _ := strconv.ParseBool(debugEnv)

	humanStr := os.Getenv("HUMAN")
	human, _ := strconv.ParseBool(humanStr)
	logging.InitLogger(debug, human)

	if err := cmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
