package bulkload

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

const ownerColumn = "user_id"

// OwnerColumnInjector appends an owner column to every CSV line it reads from
// the wrapped source. The header gains ",user_id" and each data line gains
// ",<ownerID>". A trailing carriage return is dropped and blank lines are
// skipped. It reads one line at a time and never buffers the whole input.
//
// Lines are split on raw newlines without tracking CSV quoting, so a quoted
// field that spans lines gets ",<ownerID>" written into the field text at each
// embedded newline.
type OwnerColumnInjector struct {
	src      *bufio.Reader
	header   []byte
	suffix   []byte
	pending  []byte
	sawFirst bool
	done     bool
}

// NewOwnerColumnInjector wraps src. Injectors are single use.
func NewOwnerColumnInjector(src io.Reader, ownerID int64) *OwnerColumnInjector {
	return &OwnerColumnInjector{
		src:    bufio.NewReader(src),
		header: []byte("," + ownerColumn + "\n"),
		suffix: []byte("," + strconv.FormatInt(ownerID, 10) + "\n"),
	}
}

func (r *OwnerColumnInjector) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(r.pending) == 0 {
		if r.done {
			return 0, io.EOF
		}
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// fill loads the next transformed line into pending. It may leave pending
// empty when it consumed a blank line.
func (r *OwnerColumnInjector) fill() error {
	line, err := r.src.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return err
	}
	if err == io.EOF {
		r.done = true
	}

	line = bytes.TrimRight(line, "\n")
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(bytes.TrimSpace(line)) == 0 {
		return nil
	}

	suffix := r.suffix
	if !r.sawFirst {
		suffix = r.header
		r.sawFirst = true
	}
	out := make([]byte, 0, len(line)+len(suffix))
	out = append(out, line...)
	out = append(out, suffix...)
	r.pending = out
	return nil
}
