package utils

import (
	"fmt"
	"os"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

// Json is the shared JSON codec for the whole module.
var Json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	debugLog  zerolog.Logger
	debugOnce sync.Once
)

func debugLogger() zerolog.Logger {
	debugOnce.Do(func() {
		level := zerolog.Disabled
		if os.Getenv("DEBUG") == "1" {
			level = zerolog.DebugLevel
		}
		out := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05.000000",
		}
		debugLog = zerolog.New(out).Level(level).With().
			Timestamp().
			Str("app", "gokuma").
			Logger()
	})
	return debugLog
}

// Debug logs frame-level diagnostics when DEBUG=1 is set.
func Debug(l ...interface{}) {
	lg := debugLogger()
	lg.Debug().Msg(strings.TrimSuffix(fmt.Sprintln(l...), "\n"))
}
