package natives

import (
	"embed"
	"io/fs"

	"github.com/funvibe/clasp/internal/config"
)

//go:embed prelude.clasp
var preludeFS embed.FS

// Prelude returns the declarations of the standard native classes.
func Prelude() string {
	data, err := preludeFS.ReadFile("prelude.clasp")
	if err != nil {
		panic(err)
	}
	return string(data)
}

// LibraryFS serves the prelude at config.PreludePath for module loaders.
func LibraryFS() fs.FS {
	return libraryFS{}
}

type libraryFS struct{}

func (libraryFS) Open(name string) (fs.File, error) {
	if name != config.PreludePath {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return preludeFS.Open("prelude.clasp")
}
