package logs

import (
	"log"
	"os"
	"path/filepath"

	"github.com/cube2222/octograph/config"
)

var Output *os.File

// InitializeFileLogger redirects the standard logger to ~/.octograph/logs.txt, truncating it.
func InitializeFileLogger() {
	path := filepath.Join(config.OctographDir, "logs.txt")
	if err := os.MkdirAll(config.OctographDir, 0755); err != nil {
		log.Fatalf("couldn't create ~/.octograph home directory: %s", err)
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("couldn't create logs file: %s", err)
	}
	Output = f
	log.SetOutput(Output)
}

func CloseLogger() {
	if Output == nil {
		return
	}
	log.SetOutput(os.Stderr)
	Output.Close()
	Output = nil
}
