package ui

import (
	"io"

	"github.com/schollz/progressbar/v2"
)

// progressReader feeds a progress bar as the CSV upload streams out.
type progressReader struct {
	r   io.Reader
	bar *progressbar.ProgressBar
}

// newProgressReader wraps r; size is the total byte count.
func newProgressReader(r io.Reader, size int64) *progressReader {
	return &progressReader{r: r, bar: progressbar.New(int(size))}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		_ = p.bar.Add(n)
	}
	return n, err
}
