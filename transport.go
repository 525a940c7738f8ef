package corvid

import (
	"context"
	"fmt"

	"github.com/WelcomerTeam/czlib"
	"nhooyr.io/websocket"
)

// WebsocketReadLimit caps a single gateway frame; Discord's payloads (even
// a full GUILD_CREATE for a very large guild) stay well under this.
const WebsocketReadLimit = 512 << 20

// transport owns the single websocket connection backing a session's
// gateway protocol engine. Reads happen on a dedicated goroutine that
// feeds decompressed, framed payloads onto messageCh; writes go straight
// through WriteRaw, serialized by the caller's own rate limiting.
type transport struct {
	conn *websocket.Conn

	messageCh chan []byte
	errCh     chan error
}

// dial opens the websocket connection at url and starts the read pump.
// The returned transport's messageCh yields one decompressed JSON
// payload per gateway frame; errCh yields at most one error before the
// pump goroutine exits.
func dial(ctx context.Context, url string) (*transport, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("corvid: failed to dial gateway: %w", err)
	}

	conn.SetReadLimit(WebsocketReadLimit)

	t := &transport{
		conn:      conn,
		messageCh: make(chan []byte, 64),
		errCh:     make(chan error, 1),
	}

	go t.readPump(ctx)

	return t, nil
}

func (t *transport) readPump(ctx context.Context) {
	for {
		messageType, data, err := t.conn.Read(ctx)
		if err != nil {
			t.errCh <- err
			return
		}

		if messageType == websocket.MessageBinary {
			data, err = czlib.Decompress(data)
			if err != nil {
				t.errCh <- fmt.Errorf("corvid: failed to decompress gateway frame: %w", err)
				return
			}
		}

		select {
		case t.messageCh <- data:
		case <-ctx.Done():
			return
		}
	}
}

// WriteRaw sends already-encoded JSON as a text frame.
func (t *transport) WriteRaw(ctx context.Context, data []byte) error {
	return t.conn.Write(ctx, websocket.MessageText, data)
}

// Close closes the underlying websocket with the given close code.
func (t *transport) Close(code websocket.StatusCode) error {
	return t.conn.Close(code, "")
}
