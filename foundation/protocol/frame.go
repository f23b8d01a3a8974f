// Package protocol implements the request/response protocol spoken between
// ledger clients and the node. Every message is a frame made of a 4 byte big
// endian length followed by that many bytes of JSON.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize is the largest payload accepted from a peer.
const MaxFrameSize = 64 << 20

// headerSize is the size of the length prefix.
const headerSize = 4

// Set of framing errors.
var (
	ErrSessionClosed = errors.New("session closed by peer")
	ErrFrameTooLarge = errors.New("frame too large")
)

// ReadFrame reads one frame and returns its payload. A zero length frame
// returns ErrSessionClosed. A peer closing the connection before a header
// starts returns io.EOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	n := binary.BigEndian.Uint32(header[:])
	switch {
	case n == 0:
		return nil, ErrSessionClosed
	case n > MaxFrameSize:
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}

	return payload, nil
}

// WriteFrame writes the payload as a single frame.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}

	frame := make([]byte, headerSize+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[headerSize:], payload)

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	return nil
}

// WriteClose writes the zero length frame that ends a session.
func WriteClose(w io.Writer) error {
	var header [headerSize]byte
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("writing close frame: %w", err)
	}

	return nil
}
