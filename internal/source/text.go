package source

import "os"

// OpenText reads a plain text file as a single-page document.
func OpenText(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	text := string(data)
	return &memSource{path: path, pages: []string{text}, full: text}, nil
}
