// Package reader adapts a byte source (serial port, file, or any
// io.Reader) into a semp.ParseState, one byte at a time on a background
// goroutine.
package reader

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/gnssparse/semp/pkg/semp"
)

// Reader drives ps.ParseNextByte from source on a background goroutine
// until Stop is called.
type Reader struct {
	source io.Reader
	ps     *semp.ParseState

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New wraps source and ps. The caller remains responsible for source's
// lifetime (closing a serial port or file) after Stop returns.
func New(source io.Reader, ps *semp.ParseState) *Reader {
	return &Reader{
		source:   source,
		ps:       ps,
		stopChan: make(chan struct{}),
	}
}

// Start begins the background read loop.
func (r *Reader) Start() {
	r.wg.Add(1)
	go r.readLoop()
}

// Stop signals the read loop to exit and waits for it to do so.
func (r *Reader) Stop() {
	close(r.stopChan)
	r.wg.Wait()
}

func (r *Reader) readLoop() {
	defer r.wg.Done()

	buf := make([]byte, 1)
	log.Printf("reader: starting byte-at-a-time read loop")

	for {
		select {
		case <-r.stopChan:
			return
		default:
		}

		n, err := r.source.Read(buf)
		if err != nil {
			if err != io.EOF {
				log.Printf("reader: error reading from source: %v", err)
				time.Sleep(10 * time.Millisecond)
			}
			continue
		}
		if n == 0 {
			continue
		}

		semp.ParseNextByte(r.ps, buf[0])
	}
}
