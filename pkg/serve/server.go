package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/praetorian-inc/chunkpos/pkg/indexer"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server manages the streaming indexer
type Server struct {
	core    *indexer.Core
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a new streaming server
func NewServer(core *indexer.Core, in io.Reader, out io.Writer) *Server {
	return &Server{
		core:    core,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	// Send ready signal
	s.sendReady()

	// Use buffered channels for incoming requests
	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until stdin closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					// No more pending requests
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	switch req.Type {
	case "index":
		s.handleIndex(req.Payload)
	case "index_batch":
		s.handleIndexBatch(req.Payload)
	case "locate":
		s.handleLocate(req.Payload)
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	data, _ := json.Marshal(ReadyData{Version: Version})
	s.encoder.Encode(Response{
		Success: true,
		Type:    "ready",
		Data:    data,
	})
}

func (s *Server) handleIndex(payload json.RawMessage) {
	var p IndexPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("index", err.Error())
		return
	}

	result, err := s.core.Index([]byte(p.Content), p.Source)
	if err != nil {
		s.sendError("index", err.Error())
		return
	}

	s.sendResult("index", result)
}

func (s *Server) handleIndexBatch(payload json.RawMessage) {
	var p IndexBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("index_batch", err.Error())
		return
	}

	result, err := s.core.IndexBatch(p.Items)
	if err != nil {
		s.sendError("index_batch", err.Error())
		return
	}

	s.sendResult("index_batch", result)
}

func (s *Server) handleLocate(payload json.RawMessage) {
	var p LocatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("locate", err.Error())
		return
	}

	position, err := s.core.Locate([]byte(p.Content), p.Offset)
	if err != nil {
		s.sendError("locate", err.Error())
		return
	}

	s.sendResult("locate", LocateData{Offset: p.Offset, Position: position})
}

func (s *Server) sendResult(reqType string, result interface{}) {
	data, err := json.Marshal(result)
	if err != nil {
		s.sendError(reqType, err.Error())
		return
	}
	s.encoder.Encode(Response{
		Success: true,
		Type:    reqType,
		Data:    data,
	})
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}
