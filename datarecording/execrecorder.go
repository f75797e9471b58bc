package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecInfoTableName is the table that describes the program execution.
const ExecInfoTableName = "exec_info"

type execInfo struct {
	Property string
	Value    string
}

// ExecRecorder records how the program was executed, along with any
// properties the caller wants to keep next to the data.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []execInfo
}

// NewExecRecorder creates an ExecRecorder that writes into the exec_info table
// of the recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(ExecInfoTableName, execInfo{})

	return &ExecRecorder{recorder: recorder}
}

// Start logs the current execution.
func (e *ExecRecorder) Start() {
	e.Set("Start Time", now())
	e.Set("Command", strings.Join(os.Args, " "))

	if cwd, err := os.Getwd(); err == nil {
		e.Set("Working Directory", cwd)
	}
}

// Set records a property.
func (e *ExecRecorder) Set(property, value string) {
	e.entries = append(e.entries, execInfo{property, value})
}

// End writes the properties along with the program exit time.
func (e *ExecRecorder) End() {
	e.Set("End Time", now())

	for _, entry := range e.entries {
		e.recorder.InsertData(ExecInfoTableName, entry)
	}
	e.entries = nil

	e.recorder.Flush()
}

func now() string {
	return time.Now().Format("2006-01-02 15:04:05.000000000")
}
