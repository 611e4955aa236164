package logger

import (
	"errors"
	"io"
	"sync"
)

var errWriterClosed = errors.New("logger: writer closed")

// asyncWriter fans log lines out to sinks from a single goroutine so that
// handlers never block on slow files. A failing sink does not stop the others;
// only its first error is kept.
type asyncWriter struct {
	lines  chan []byte
	flush  chan chan error
	closed chan struct{}
	done   chan struct{}
	once   sync.Once

	sinks   []io.Writer
	mu      sync.Mutex
	sinkErr []error
}

func newAsyncWriter(writers []io.Writer, queue int) *asyncWriter {
	if queue <= 0 {
		queue = 1024
	}
	sinks := make([]io.Writer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			sinks = append(sinks, w)
		}
	}
	w := &asyncWriter{
		lines:   make(chan []byte, queue),
		flush:   make(chan chan error),
		closed:  make(chan struct{}),
		done:    make(chan struct{}),
		sinks:   sinks,
		sinkErr: make([]error, len(sinks)),
	}
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	defer close(w.done)
	for {
		select {
		case line := <-w.lines:
			w.emit(line)
		case ack := <-w.flush:
			w.drain()
			ack <- w.err()
		case <-w.closed:
			w.drain()
			return
		}
	}
}

func (w *asyncWriter) drain() {
	for {
		select {
		case line := <-w.lines:
			w.emit(line)
		default:
			return
		}
	}
}

func (w *asyncWriter) emit(line []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, sink := range w.sinks {
		if w.sinkErr[i] != nil {
			continue
		}
		if _, err := sink.Write(line); err != nil {
			w.sinkErr[i] = err
		}
	}
}

func (w *asyncWriter) err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return errors.Join(w.sinkErr...)
}

// Write queues a copy of p. It blocks when the queue is full.
func (w *asyncWriter) Write(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	line := append([]byte(nil), p...)
	select {
	case <-w.closed:
		return errWriterClosed
	default:
	}
	select {
	case w.lines <- line:
		return nil
	case <-w.closed:
		return errWriterClosed
	}
}

// Flush blocks until every queued line reached the sinks and returns the sink errors.
func (w *asyncWriter) Flush() error {
	ack := make(chan error, 1)
	select {
	case w.flush <- ack:
		return <-ack
	case <-w.done:
		return errWriterClosed
	}
}

// Close writes out the queue and stops the writer. It is safe to call twice.
func (w *asyncWriter) Close() error {
	w.once.Do(func() { close(w.closed) })
	<-w.done
	return w.err()
}
