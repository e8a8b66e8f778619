// Package websocket implements [trickle.Dialer] over gorilla/websocket.
//
// Each Dial opens one channel. The server pushes JSON frames carrying a
// status field: "ERROR" fails the session, "DONE" carries the final text and
// any other status carries an incremental fragment. A read deadline armed at
// open enforces the idle timeout until the first frame arrives.
package websocket

import "time"

const (
	defaultHandshakeTimeout = 10 * time.Second
	writeWait               = time.Second
)
