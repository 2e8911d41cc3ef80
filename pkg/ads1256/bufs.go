package ads1256

import "sync"

// Scratch buffers for RDATA (3 bytes) and RREG (1 byte) responses.
var (
	sampleBufs   = &sync.Pool{New: func() any { return make([]byte, 3) }}
	registerBufs = &sync.Pool{New: func() any { return make([]byte, 1) }}
)

func get3Bytes() []byte {
	return sampleBufs.Get().([]byte)
}

func put3Bytes(b []byte) {
	clear(b)
	sampleBufs.Put(b)
}

func get1Byte() []byte {
	return registerBufs.Get().([]byte)
}

func put1Byte(b []byte) {
	clear(b)
	registerBufs.Put(b)
}
