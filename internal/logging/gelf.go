package logging

import (
	"io"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGelfWriter connects a GELF UDP writer for shipping records to Graylog.
// Pass the result to Setup as an extra writer.
func NewGelfWriter(addr string) (io.Writer, error) {
	return gelf.NewWriter(addr)
}
