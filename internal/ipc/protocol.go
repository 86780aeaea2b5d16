// Package ipc provides the control channel between the liuime daemon and
// liuctl over a Unix socket: a fixed binary header framing JSON payloads,
// request/response with correlation IDs.
package ipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Protocol identity.
const (
	ProtocolVersion = 1
	ProtocolMagic   = 0x4c495043 // "LIPC"
)

// MessageType identifies the type of IPC message.
type MessageType uint16

const (
	// Control messages (0x00xx)
	MsgPing         MessageType = 0x0001
	MsgPong         MessageType = 0x0002
	MsgError        MessageType = 0x0003
	MsgShutdown     MessageType = 0x0004
	MsgShutdownResp MessageType = 0x0005

	// Status messages (0x01xx)
	MsgStatus     MessageType = 0x0100
	MsgStatusResp MessageType = 0x0101

	// Engine control (0x02xx)
	MsgSetMode        MessageType = 0x0200
	MsgSetModeResp    MessageType = 0x0201
	MsgReloadDict     MessageType = 0x0202
	MsgReloadDictResp MessageType = 0x0203

	// Stats (0x03xx)
	MsgStats     MessageType = 0x0300
	MsgStatsResp MessageType = 0x0301
)

// Header is the fixed-size message header (16 bytes).
type Header struct {
	Magic     uint32
	Version   uint8
	Flags     uint8
	Type      MessageType
	RequestID uint32
	Length    uint32 // payload length, excluding the header
}

// HeaderSize is the size of the header in bytes.
const HeaderSize = 16

// MaxPayloadSize bounds a single message payload.
const MaxPayloadSize = 1 << 20

// Message wraps a header and payload.
type Message struct {
	Header  Header
	Payload []byte
}

// NewMessage creates a message with the given type and payload.
func NewMessage(msgType MessageType, requestID uint32, payload []byte) *Message {
	return &Message{
		Header: Header{
			Magic:     ProtocolMagic,
			Version:   ProtocolVersion,
			Type:      msgType,
			RequestID: requestID,
			Length:    uint32(len(payload)),
		},
		Payload: payload,
	}
}

// Write writes the header to a writer.
func (h *Header) Write(w io.Writer) error {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], h.Magic)
	buf[4] = h.Version
	buf[5] = h.Flags
	binary.BigEndian.PutUint16(buf[6:8], uint16(h.Type))
	binary.BigEndian.PutUint32(buf[8:12], h.RequestID)
	binary.BigEndian.PutUint32(buf[12:16], h.Length)
	_, err := w.Write(buf)
	return err
}

// ReadHeader reads and validates a header.
func ReadHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	h := &Header{
		Magic:     binary.BigEndian.Uint32(buf[0:4]),
		Version:   buf[4],
		Flags:     buf[5],
		Type:      MessageType(binary.BigEndian.Uint16(buf[6:8])),
		RequestID: binary.BigEndian.Uint32(buf[8:12]),
		Length:    binary.BigEndian.Uint32(buf[12:16]),
	}

	if h.Magic != ProtocolMagic {
		return nil, fmt.Errorf("invalid magic number: %x", h.Magic)
	}
	if h.Version > ProtocolVersion {
		return nil, fmt.Errorf("unsupported protocol version: %d", h.Version)
	}

	return h, nil
}

// Write writes the message to a writer.
func (m *Message) Write(w io.Writer) error {
	if err := m.Header.Write(w); err != nil {
		return err
	}
	if len(m.Payload) > 0 {
		_, err := w.Write(m.Payload)
		return err
	}
	return nil
}

// ReadMessage reads a complete message from a reader.
func ReadMessage(r io.Reader) (*Message, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	m := &Message{Header: *h}
	if h.Length > 0 {
		if h.Length > MaxPayloadSize {
			return nil, fmt.Errorf("payload too large: %d bytes", h.Length)
		}
		m.Payload = make([]byte, h.Length)
		if _, err := io.ReadFull(r, m.Payload); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Request/response payloads.

// ErrorResponse is sent when an operation fails.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrUnknown        = 1
	ErrInvalidRequest = 2
	ErrInternalError  = 3
	ErrUnavailable    = 4
)

// StatusResponse describes the running daemon.
type StatusResponse struct {
	Version      string `json:"version"`
	Mode         string `json:"mode"`
	BufferLen    int    `json:"buffer_len"`
	DictEntries  int    `json:"dict_entries"`
	DictChecksum string `json:"dict_checksum,omitempty"`
	DictPath     string `json:"dict_path"`
	UptimeSec    int64  `json:"uptime_sec"`
	StatsEnabled bool   `json:"stats_enabled"`
}

// SetModeRequest switches the engine mode.
type SetModeRequest struct {
	Mode string `json:"mode"` // "intercept", "passthrough", or "toggle"
}

// SetModeResponse acknowledges the switch.
type SetModeResponse struct {
	Mode string `json:"mode"`
}

// ReloadDictResponse reports the freshly loaded dictionary.
type ReloadDictResponse struct {
	Entries  int    `json:"entries"`
	Checksum string `json:"checksum"`
}

// CodeCount is a per-code commit tally.
type CodeCount struct {
	Code  string `json:"code"`
	Count int64  `json:"count"`
}

// StatsResponse aggregates the commit journal.
type StatsResponse struct {
	TotalCommits  int64       `json:"total_commits"`
	DistinctCodes int64       `json:"distinct_codes"`
	TotalChars    int64       `json:"total_chars"`
	TopCodes      []CodeCount `json:"top_codes,omitempty"`
}

// Encode encodes a payload to JSON bytes.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode decodes JSON bytes into a payload.
func Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// NewErrorMessage creates an error message.
func NewErrorMessage(requestID uint32, code int, message string) *Message {
	payload, _ := Encode(&ErrorResponse{Code: code, Message: message})
	return NewMessage(MsgError, requestID, payload)
}

// NewResponse creates a response message with a JSON payload.
func NewResponse(msgType MessageType, requestID uint32, v any) (*Message, error) {
	payload, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return NewMessage(msgType, requestID, payload), nil
}
