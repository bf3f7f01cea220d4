package logging

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// logWriter is a writer for leveled log output, optionally prepending
// timestamps to each write.
type logWriter struct {
	sync.Mutex
	out      io.Writer
	clock    func() time.Time
	wantTime bool
}

func newLogWriter(writer io.Writer, clock func() time.Time, wantTime bool) *logWriter {
	return &logWriter{
		out:      writer,
		clock:    clock,
		wantTime: wantTime,
	}
}

// Write writes a message, prepended by the time when wanted, to the set io.Writer.
func (tw *logWriter) Write(buf []byte) (n int, err error) {
	tw.Lock()
	defer tw.Unlock()

	prefix := ""
	if tw.wantTime {
		prefix = fmt.Sprintf("%s ", tw.clock().Format(timeFmt))
	}

	_, err = fmt.Fprint(tw.out, appendMissingLineFeed(fmt.Sprintf("%s%s", prefix, buf)))
	return len(buf), err
}

// Fd returns the file descriptor of the underlying writer when it has one.
func (tw *logWriter) Fd() uintptr {
	if file, ok := tw.out.(hasDescriptor); ok {
		return file.Fd()
	}

	return ^(uintptr(0))
}

type hasDescriptor interface {
	Fd() uintptr
}

func appendMissingLineFeed(msg string) string {
	buff := []byte(msg)
	if len(buff) == 0 || buff[len(buff)-1] != '\n' {
		buff = append(buff, '\n')
	}
	return string(buff)
}
