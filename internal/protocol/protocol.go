package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeMerge = "MERGE"
	TypeClaim = "CLAIM"
)

// BaseMessage lets us route unknown JSON datagrams by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
