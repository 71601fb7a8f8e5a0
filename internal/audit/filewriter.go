package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	bufferSize    = 10_000
	flushInterval = 100 * time.Millisecond
	drainTimeout  = 2 * time.Second
)

// FileWriter appends guardrail events to a JSONL file asynchronously.
// Write() is non-blocking — events are buffered and written line-by-line in
// a background goroutine, so one Write produces one atomic record even with
// many concurrent callers.
type FileWriter struct {
	file      *os.File
	buffer    chan *Event
	done      chan struct{}
	flushed   chan struct{} // closed by flushLoop when it returns
	closeOnce sync.Once
	logger    *zap.Logger
}

// NewFileWriter opens (creating if needed) the event log for appending and
// starts the background flush loop.
func NewFileWriter(path string, logger *zap.Logger) (*FileWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	w := &FileWriter{
		file:    file,
		buffer:  make(chan *Event, bufferSize),
		done:    make(chan struct{}),
		flushed: make(chan struct{}),
		logger:  logger,
	}

	go w.flushLoop()
	return w, nil
}

// Write queues an event for async persistence.
// Non-blocking: drops the event if the buffer is full.
func (w *FileWriter) Write(event *Event) {
	select {
	case w.buffer <- event:
	default:
		w.logger.Warn("event log buffer full, dropping event",
			zap.String("event_type", event.EventType),
		)
	}
}

// Close signals the flush loop to drain remaining events, waits for it to
// finish (up to drainTimeout), and closes the file. Idempotent.
func (w *FileWriter) Close() {
	w.closeOnce.Do(func() { close(w.done) })
	<-w.flushed
}

func (w *FileWriter) flushLoop() {
	defer close(w.flushed)
	defer w.file.Close() //nolint:errcheck

	bw := bufio.NewWriter(w.file)
	defer bw.Flush() //nolint:errcheck

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case event := <-w.buffer:
			w.writeLine(bw, event)
		case <-ticker.C:
			if err := bw.Flush(); err != nil {
				w.logger.Error("event log flush failed", zap.Error(err))
			}
		case <-w.done:
			drainCtx := time.After(drainTimeout)
		drainLoop:
			for {
				select {
				case event := <-w.buffer:
					w.writeLine(bw, event)
				case <-drainCtx:
					break drainLoop
				default:
					break drainLoop
				}
			}
			return
		}
	}
}

func (w *FileWriter) writeLine(bw *bufio.Writer, event *Event) {
	line, err := json.Marshal(event)
	if err != nil {
		w.logger.Error("event marshal failed", zap.Error(err))
		return
	}
	line = append(line, '\n')
	if _, err := bw.Write(line); err != nil {
		w.logger.Error("event log write failed", zap.Error(err))
	}
}
