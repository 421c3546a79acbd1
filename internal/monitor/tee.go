package monitor

import "github.com/coreman2200/funtimes-dots/model"

type tee struct {
	next model.Sink
	srv  *Server
	buf  []byte
}

// Tee returns a sink that forwards every byte to next and publishes each
// flushed transmission to the websocket clients.
func (s *Server) Tee(next model.Sink) model.Sink {
	return &tee{next: next, srv: s}
}

func (t *tee) WriteByte(b byte) error {
	t.buf = append(t.buf, b)
	return t.next.WriteByte(b)
}

func (t *tee) Flush() error {
	var err error
	if f, ok := t.next.(model.Flusher); ok {
		err = f.Flush()
	}
	t.srv.publish(model.DecodeFrames(t.buf))
	t.buf = t.buf[:0]
	return err
}
