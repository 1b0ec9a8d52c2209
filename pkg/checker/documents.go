package checker

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// StdinName is the file name used on the command line for standard input.
const StdinName = "-"

// ReadDocuments loads every named file, reading stdin for "-". Standard input can only be
// named once.
func ReadDocuments(paths []string, stdin io.Reader) ([]Document, error) {
	if len(paths) == 0 {
		return nil, errors.New("no documents given")
	}

	documents := make([]Document, 0, len(paths))
	readStdin := false

	for _, path := range paths {
		if path == StdinName {
			if readStdin {
				return nil, errors.New("standard input given more than once")
			}
			readStdin = true

			raw, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("read standard input: %w", err)
			}

			documents = append(documents, Document{Name: "stdin", Raw: raw})
			continue
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		documents = append(documents, Document{Name: path, Raw: raw})
	}

	return documents, nil
}
