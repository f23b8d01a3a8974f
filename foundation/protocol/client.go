package protocol

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
)

// Client sends requests to a node over a single session.
type Client struct {
	mu   sync.Mutex
	conn net.Conn
}

// Dial connects to the node listening on the address.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}

	return NewClient(conn), nil
}

// NewClient constructs a client over an established connection.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn}
}

// Send writes the request and waits for the reply. Requests on a client are
// serialized so replies line up with their requests.
func (c *Client) Send(req Request) (Response, error) {
	payload, err := EncodeRequest(req)
	if err != nil {
		return Response{}, fmt.Errorf("encoding request: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := WriteFrame(c.conn, payload); err != nil {
		return Response{}, err
	}

	reply, err := ReadFrame(c.conn)
	if err != nil {
		return Response{}, fmt.Errorf("reading reply: %w", err)
	}

	resp, err := DecodeResponse(reply)
	if err != nil {
		return Response{}, fmt.Errorf("decoding reply: %w", err)
	}

	return resp, nil
}

// Close ends the session with a zero length frame and closes the
// connection. The connection is closed even when the frame cannot be
// written and both errors are returned.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return errors.Join(WriteClose(c.conn), c.conn.Close())
}
