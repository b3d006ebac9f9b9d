package logging

import (
	"io"
	"log"
	"os"
)

var (
	InfoLog = log.New(os.Stdout, "[INFO] ", log.LstdFlags|log.Lshortfile)
	WarnLog = log.New(os.Stdout, "[WARN] ", log.LstdFlags|log.Lshortfile)
	ErrLog  = log.New(os.Stderr, "[ERR] ", log.LstdFlags|log.Lshortfile)
)

// SetOutput redirects all loggers to w
func SetOutput(w io.Writer) {
	InfoLog.SetOutput(w)
	WarnLog.SetOutput(w)
	ErrLog.SetOutput(w)
}

// ResetOutput points the loggers back at stdout/stderr
func ResetOutput() {
	InfoLog.SetOutput(os.Stdout)
	WarnLog.SetOutput(os.Stdout)
	ErrLog.SetOutput(os.Stderr)
}
