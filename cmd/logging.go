package cmd

import (
	"github.com/JerryBerry12/glare-core-sub000/log"
	"github.com/urfave/cli"
)

// Shared by all kd-tree commands.
var logger = log.New("glare")

// Apply the global verbosity flags. A valid --log-level overrides -v and -vv.
func setupLogging(ctx *cli.Context) {
	level, ok, err := requestedLevel(ctx.GlobalString("log-level"), ctx.GlobalBool("v"), ctx.GlobalBool("vv"))
	if err != nil {
		logger.Warningf("%s; falling back to verbosity flags", err.Error())
	}
	if ok {
		log.SetLevel(level)
	}
}

// Resolve the log level selected by the verbosity flags. The second result
// is false if the current level should be kept.
func requestedLevel(name string, verbose, veryVerbose bool) (log.Level, bool, error) {
	var err error
	if name != "" {
		var level log.Level
		if level, err = log.ParseLevel(name); err == nil {
			return level, true, nil
		}
	}

	switch {
	case veryVerbose:
		return log.Debug, true, err
	case verbose:
		return log.Info, true, err
	}
	return log.Notice, false, err
}
