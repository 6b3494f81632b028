package stdf

import "sync"

// BufferSize is the read buffer size of stream Readers.
const BufferSize = 64 * 1024

// recBufPool reuses record encode buffers. A header plus the largest body
// always fits, so pooled buffers never regrow.
var recBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, HeaderSize+MaxBodyLen)
		return &b
	},
}

func getBuf() *[]byte {
	bp := recBufPool.Get().(*[]byte)
	*bp = (*bp)[:0]
	return bp
}

func putBuf(bp *[]byte) {
	if cap(*bp) > HeaderSize+MaxBodyLen {
		return
	}
	recBufPool.Put(bp)
}
