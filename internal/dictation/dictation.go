// Package dictation turns recognized speech fragments into entry body text.
// Recognizers report the fragments heard so far through a callback; the
// presentation layer joins them with Join.
package dictation

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

var (
	ErrAlreadyListening = errors.New("recognizer is already listening")
	ErrDestroyed        = errors.New("recognizer has been destroyed")
)

// Recognizer is a speech-to-text source.
type Recognizer interface {
	// Start begins listening. onResult receives every fragment recognized
	// since the last Reset; onError receives recognition failures.
	Start(ctx context.Context, onResult func([]string), onError func(error)) error
	Stop() error
	Reset()
	Destroy() error
}

// Join builds body text from fragments separated by single spaces.
func Join(fragments []string) string {
	words := make([]string, 0, len(fragments))
	for _, f := range fragments {
		words = append(words, strings.Fields(f)...)
	}
	return strings.Join(words, " ")
}

// LineRecognizer treats each non-blank line of its reader as one utterance.
// It backs `new --dictate`, where an external speech tool pipes transcripts
// into stdin. A single goroutine reads the input for the recognizer's whole
// life; sessions started with Start take lines from it, so a line read while
// stopped is delivered to the next session.
type LineRecognizer struct {
	r io.Reader

	readOnce sync.Once
	lines    chan string
	eof      chan struct{}
	quit     chan struct{}
	readErr  error

	mu          sync.Mutex
	results     []string
	listening   bool
	destroyed   bool
	errReported bool
	session     int
	done        chan struct{}
	stop        chan struct{}
}

var _ Recognizer = (*LineRecognizer)(nil)

func NewLineRecognizer(r io.Reader) *LineRecognizer {
	return &LineRecognizer{
		r:     r,
		lines: make(chan string),
		eof:   make(chan struct{}),
		quit:  make(chan struct{}),
	}
}

func (l *LineRecognizer) Start(ctx context.Context, onResult func([]string), onError func(error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.destroyed {
		return ErrDestroyed
	}
	if l.listening {
		return ErrAlreadyListening
	}
	l.listening = true
	l.session++
	l.done = make(chan struct{})
	l.stop = make(chan struct{})

	l.readOnce.Do(func() { go l.read() })
	go l.listen(ctx, l.session, l.done, l.stop, onResult, onError)
	return nil
}

// read scans the input until it ends or the recognizer is destroyed.
func (l *LineRecognizer) read() {
	defer close(l.eof)
	scanner := bufio.NewScanner(l.r)
	for scanner.Scan() {
		select {
		case l.lines <- scanner.Text():
		case <-l.quit:
			return
		}
	}
	l.mu.Lock()
	l.readErr = scanner.Err()
	l.mu.Unlock()
}

func (l *LineRecognizer) listen(ctx context.Context, session int, done, stop chan struct{}, onResult func([]string), onError func(error)) {
	defer close(done)
	defer l.finish(session)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-l.eof:
			if err := l.takeReadErr(session); err != nil && onError != nil {
				onError(err)
			}
			return
		case line := <-l.lines:
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			l.mu.Lock()
			l.results = append(l.results, line)
			snapshot := append([]string(nil), l.results...)
			active := l.listening && l.session == session
			l.mu.Unlock()
			if !active {
				return
			}
			if onResult != nil {
				onResult(snapshot)
			}
		}
	}
}

// takeReadErr hands the input's error to the first active session that sees
// the end of input.
func (l *LineRecognizer) takeReadErr(session int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.errReported || !l.listening || l.session != session {
		return nil
	}
	l.errReported = true
	return l.readErr
}

func (l *LineRecognizer) finish(session int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.session == session {
		l.listening = false
	}
}

// Done is closed when the current listening session ends, either because the
// reader is exhausted or because Stop was called. It is nil before Start.
func (l *LineRecognizer) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}

// Stop ends the session. No callbacks fire after it returns.
func (l *LineRecognizer) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.halt()
	return nil
}

func (l *LineRecognizer) halt() {
	l.listening = false
	if l.stop != nil {
		close(l.stop)
		l.stop = nil
	}
}

// Reset forgets the recognized fragments.
func (l *LineRecognizer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = nil
}

// Results returns the fragments recognized since the last Reset.
func (l *LineRecognizer) Results() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.results...)
}

// Destroy ends the session and releases the reading goroutine once its
// current read returns.
func (l *LineRecognizer) Destroy() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.halt()
	if !l.destroyed {
		close(l.quit)
	}
	l.destroyed = true
	l.results = nil
	return nil
}

// Transcribe listens until the recognizer's input ends or ctx is done and
// returns the joined text. Recognition errors end the session.
func Transcribe(ctx context.Context, rec *LineRecognizer) (string, error) {
	var (
		mu      sync.Mutex
		latest  []string
		lastErr error
	)
	err := rec.Start(ctx,
		func(fragments []string) {
			mu.Lock()
			latest = fragments
			mu.Unlock()
		},
		func(err error) {
			mu.Lock()
			lastErr = err
			mu.Unlock()
		},
	)
	if err != nil {
		return "", err
	}

	select {
	case <-rec.Done():
	case <-ctx.Done():
		_ = rec.Stop()
	}

	mu.Lock()
	defer mu.Unlock()
	if lastErr != nil {
		return Join(latest), lastErr
	}
	return Join(latest), nil
}
