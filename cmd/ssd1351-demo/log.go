package main

import (
	"fmt"
	stdlog "log"
	"os"
)

// Leveled key=value logging to stderr.

type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelError level = "ERROR"
)

var (
	logger  = stdlog.New(os.Stderr, "", stdlog.LstdFlags|stdlog.Lmicroseconds)
	verbose bool
)

func logDebug(msg string, kv ...any) {
	if verbose {
		logPrint(levelDebug, msg, kv...)
	}
}

func logInfo(msg string, kv ...any) {
	logPrint(levelInfo, msg, kv...)
}

func logError(msg string, err error, kv ...any) {
	logPrint(levelError, msg, append([]any{"err", err}, kv...)...)
}

func fatal(msg string, err error, kv ...any) {
	logError(msg, err, kv...)
	os.Exit(1)
}

func logPrint(lvl level, msg string, kv ...any) {
	line := "[" + string(lvl) + "] " + msg
	// Key-value pairs; an odd trailing argument is ignored.
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		line += " " + key + "=" + fmt.Sprint(kv[i+1])
	}
	logger.Println(line)
}
