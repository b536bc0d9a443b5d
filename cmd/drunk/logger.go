package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"

	jlog "github.com/luno/jettison/log"
)

// JSONLogger writes one JSON object per log entry, tagged with the command
// name so sampling runs can be told apart from other processes.
type JSONLogger struct {
	out     *log.Logger
	command string
}

func newJSONLogger(w io.Writer, command string) *JSONLogger {
	return &JSONLogger{out: log.New(w, "", 0), command: command}
}

func (l *JSONLogger) Log(_ context.Context, e jlog.Entry) string {
	e.SetKey("command", l.command)
	res, err := json.Marshal(e)
	if err != nil {
		l.out.Printf("drunk: failed to marshal log entry: %v", err)
		l.out.Print(e.Message)
		return e.Message
	}
	l.out.Print(string(res))
	return string(res)
}

func InitLogging() {
	jlog.SetLogger(newJSONLogger(os.Stdout, "drunk"))
}
