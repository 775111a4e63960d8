// Package log - тонкая обертка над стандартным log, которая отбрасывает сообщения с префиксом [DEBUG],
// если не включен AllowDebug.
package log

import (
	"fmt"
	"io"
	"log"
	"strings"
)

const debugPrefix = "[DEBUG]"

var AllowDebug = false

// Setup включает отладочные сообщения и более точные метки времени для них.
func Setup(debug bool, w io.Writer) {
	AllowDebug = debug
	if w != nil {
		log.SetOutput(w)
	}

	flags := log.LstdFlags
	if debug {
		flags |= log.Lmicroseconds | log.Lshortfile
	}
	log.SetFlags(flags)
}

func Printf(format string, v ...any) {
	if !allowed(format) {
		return
	}
	_ = log.Output(2, fmt.Sprintf(format, v...))
}

func allowed(s string) bool {
	if AllowDebug {
		return true
	}
	return !strings.HasPrefix(s, debugPrefix)
}
