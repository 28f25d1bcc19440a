package util

import "sync"

// DefaultBufSize is the receive buffer size for one datagram.  It is
// large enough for a full Ethernet MTU.
const DefaultBufSize = 2048

// BufPool provides reusable datagram buffers so that restarting a
// session or sending probes does not allocate on every cycle.
var BufPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, DefaultBufSize)
		return &buf
	},
}

// GetBuf retrieves a buffer of at least size bytes.  Callers must
// return it with [PutBuf] when finished.
func GetBuf(size int) *[]byte {
	buf := BufPool.Get().(*[]byte)
	if cap(*buf) < size {
		b := make([]byte, size)
		return &b
	}
	*buf = (*buf)[:size]
	return buf
}

// PutBuf returns a buffer to the pool for reuse.  Oversized buffers are
// dropped so the pool stays at DefaultBufSize.
func PutBuf(buf *[]byte) {
	if buf == nil || cap(*buf) > DefaultBufSize {
		return
	}
	*buf = (*buf)[:cap(*buf)]
	BufPool.Put(buf)
}
