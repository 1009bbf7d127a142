package actors

import (
	"os"
	"path/filepath"

	"tokensale/engine/library"
)

// Open opens a flat file written by Write, if there is one.
func Open(mind, name string) (*os.File, bool) {
	path := filepath.Join(directory(mind), name+".dat")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, false
	}
	file, err := os.Open(path)
	if err != nil {
		library.LogCLI(err.Error(), 1)
		return nil, false
	}
	return file, true
}

// Write replaces a flat file. The engine keeps the last published state
// snapshot this way so operators can inspect it without a relay.
func Write(mind, name string, b []byte) {
	if err := os.MkdirAll(directory(mind), 0755); err != nil {
		library.LogCLI(err.Error(), 1)
		return
	}
	path := filepath.Join(directory(mind), name+".dat")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		library.LogCLI(err.Error(), 1)
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		library.LogCLI(err.Error(), 1)
	}
}

func directory(mind string) string {
	c := MakeOrGetConfig()
	return filepath.Join(c.GetString("rootDir"), c.GetString("flatFileDir"), mind)
}
