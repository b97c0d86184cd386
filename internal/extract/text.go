package extract

import "os"

// TextExtractor handles plain text files, which are already a flat stream.
type TextExtractor struct{}

func (e *TextExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
