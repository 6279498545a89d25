package kv

// Simple JSON protocol for the kv daemon over a Unix domain socket.
// One request -> one response using json.Encoder/Decoder on the connection.

// Op names a Backend method on the wire.
type Op string

const (
	OpSet     Op = "set"
	OpGet     Op = "get"
	OpIncr    Op = "incr"
	OpRPush   Op = "rpush"
	OpLRange  Op = "lrange"
	OpFlushDB Op = "flushdb"
)

type Request struct {
	Op     Op     `json:"op"`
	Key    string `json:"key,omitempty"`
	Value  []byte `json:"value,omitempty"`
	Amount int64  `json:"amount,omitempty"`
	Start  int64  `json:"start,omitempty"`
	Stop   int64  `json:"stop,omitempty"`
}

type Response struct {
	OK     bool     `json:"ok"`
	Value  []byte   `json:"value,omitempty"`
	Int    int64    `json:"int,omitempty"`
	Values [][]byte `json:"values,omitempty"`
	Error  string   `json:"error,omitempty"`
}
