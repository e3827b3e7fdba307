package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewErrorMessage encodes an error notice for a single client.
func NewErrorMessage(text string) []byte {
	return encode(Message{Action: "error", Payload: map[string]string{"message": text}})
}

// NewPongMessage answers a client "ping".
func NewPongMessage() []byte {
	return encode(Message{Action: "pong"})
}

func encode(msg Message) []byte {
	b, _ := json.Marshal(msg)
	return b
}
