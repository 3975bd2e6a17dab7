// Package transport exposes the orchestrator's live-mode draft/verified/
// error events over a bidirectional gRPC stream, reusing the teacher's
// hand-rolled JSON-codec ServiceDesc trick from internal/api/grpc_service.go
// so no protoc / .proto codegen is required.
package transport

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"os"
	"runtime"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
)

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)       { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// EventType tags which of the spec's three live callbacks a Message
// carries, since the wire format has no distinct message kinds of its own.
type EventType string

const (
	EventDraft    EventType = "draft"
	EventVerified EventType = "verified"
	EventError    EventType = "error"
)

// Message is the single wire envelope every event is carried in, mirroring
// spec.md §6's draft/verified/error callback shapes.
type Message struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	SegmentID string    `json:"segment_id,omitempty"`

	Start float64 `json:"start,omitempty"`
	End   float64 `json:"end,omitempty"`

	Text       string  `json:"text,omitempty"`
	Gurmukhi   string  `json:"gurmukhi,omitempty"`
	Roman      string  `json:"roman,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`

	QuoteMatch *QuoteMatchWire `json:"quote_match,omitempty"`
	NeedsReview bool           `json:"needs_review,omitempty"`

	ErrorMessage string `json:"message,omitempty"`
}

// QuoteMatchWire is the wire shape of a scripture.QuoteMatch.
type QuoteMatchWire struct {
	Source     string  `json:"source"`
	LineID     string  `json:"line_id"`
	Ang        int     `json:"ang,omitempty"`
	Raag       string  `json:"raag,omitempty"`
	Author     string  `json:"author,omitempty"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"match_method"`
}

// TranscriptionServer is the bidi-stream service clients connect to.
type TranscriptionServer interface {
	Stream(TranscriptionStreamServer) error
}

type UnimplementedTranscriptionServer struct{}

func (UnimplementedTranscriptionServer) Stream(TranscriptionStreamServer) error {
	return status.Errorf(codes.Unimplemented, "method Stream not implemented")
}

type TranscriptionStreamServer interface {
	Send(*Message) error
	Recv() (*Message, error)
	grpc.ServerStream
}

type transcriptionStreamServer struct {
	grpc.ServerStream
}

func (x *transcriptionStreamServer) Send(m *Message) error {
	return x.ServerStream.SendMsg(m)
}

func (x *transcriptionStreamServer) Recv() (*Message, error) {
	m := new(Message)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func _Transcription_Stream_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(TranscriptionServer).Stream(&transcriptionStreamServer{stream})
}

var _Transcription_serviceDesc = grpc.ServiceDesc{
	ServiceName: "gurbanicore.Transcription",
	HandlerType: (*TranscriptionServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Stream",
			Handler:       _Transcription_Stream_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "internal/transport/transcription.proto",
}

func RegisterTranscriptionServer(s *grpc.Server, srv TranscriptionServer) {
	s.RegisterService(&_Transcription_serviceDesc, srv)
}

// Serve starts a gRPC server on addr (unix:/path or npipe:\\.\pipe\name)
// using the JSON codec, blocking until the listener errs out.
func Serve(addr string, srv TranscriptionServer) error {
	if addr == "" {
		addr = defaultAddress()
	}
	lis, err := listen(addr)
	if err != nil {
		return err
	}

	server := grpc.NewServer(
		grpc.Creds(insecure.NewCredentials()),
		grpc.ForceServerCodec(jsonCodec{}),
	)
	RegisterTranscriptionServer(server, srv)

	log.Printf("gRPC transcription stream listening on %s", addr)
	return server.Serve(lis)
}

func defaultAddress() string {
	if runtime.GOOS == "windows" {
		return "npipe:\\\\.\\pipe\\gurbanicore-grpc"
	}
	return "unix:/tmp/gurbanicore-grpc.sock"
}

func listen(addr string) (net.Listener, error) {
	switch {
	case strings.HasPrefix(addr, "unix:"):
		socketPath := strings.TrimPrefix(addr, "unix:")
		if err := removeIfExists(socketPath); err != nil {
			return nil, err
		}
		return net.Listen("unix", socketPath)
	case strings.HasPrefix(addr, "npipe:"):
		return listenPipe(strings.TrimPrefix(addr, "npipe:"))
	default:
		return net.Listen("tcp", addr)
	}
}

func removeIfExists(path string) error {
	if path == "" {
		return errors.New("transport: empty socket path")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
