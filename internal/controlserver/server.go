package controlserver

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"qpackProbe/internal/logging"
	"qpackProbe/internal/qpack"
)

// Server exposes one encoder session over a local HTTP API so a harness in
// any language can drive it and read the tracked table state. The harness
// relays the returned instruction bytes to the target itself; this server
// never touches the target connection.
type Server struct {
	Port   uint16
	Logger logging.Logger

	mu      sync.Mutex // one caller at a time mutates the encoder
	encoder *qpack.Encoder
}

func NewServer(configPath string) *Server {
	conf, err := LoadConfig(configPath)
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewDefaultLogger(logging.LogLevel(strings.ToUpper(conf.Logger.Level)), conf.Logger.File)
	if err != nil {
		panic(err)
	}

	return newServer(conf, logger)
}

func newServer(conf *Config, logger logging.Logger) *Server {
	return &Server{
		Port:    uint16(conf.Server.Port),
		Logger:  logger,
		encoder: qpack.NewEncoder(conf.Encoder.MaxTableCapacity),
	}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Post("/instructions/set-capacity", s.handleSetCapacity)
	r.Post("/instructions/insert-name-ref", s.handleInsertNameRef)
	r.Post("/instructions/insert-literal", s.handleInsertLiteral)
	r.Post("/instructions/duplicate", s.handleDuplicate)
	r.Get("/table", s.handleTable)
	r.Put("/settings/max-table-capacity", s.handleMaxTableCapacity)

	return r
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.Port))
	if err != nil {
		s.Logger.Log(logging.LogLevelError, "Failed to listen on port %d: %v", s.Port, err)
		return err
	}

	s.Logger.Log(logging.LogLevelInfo, "Control server listening on http://%s", ln.Addr().String())

	return http.Serve(ln, s.Router())
}

type setCapacityRequest struct {
	Capacity int `json:"capacity"`
}

type insertNameRefRequest struct {
	Index  int    `json:"index"`
	Value  string `json:"value"`
	Static bool   `json:"static"`
}

type insertLiteralRequest struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Huffman bool   `json:"huffman"`
}

type duplicateRequest struct {
	Index int `json:"index"`
}

type maxTableCapacityRequest struct {
	MaxTableCapacity int `json:"max_table_capacity"`
}

type instructionResponse struct {
	Instruction string `json:"instruction"`
	InsertCount int    `json:"insert_count"`
}

type errorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

type tableEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type tableResponse struct {
	Capacity         int          `json:"capacity"`
	MaxTableCapacity int          `json:"max_table_capacity"`
	CurrentSize      int          `json:"current_size"`
	InsertCount      int          `json:"insert_count"`
	Entries          []tableEntry `json:"entries"`
}

func (s *Server) handleSetCapacity(w http.ResponseWriter, r *http.Request) {
	var req setCapacityRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	s.mu.Lock()
	instruction, err := s.encoder.SetCapacity(req.Capacity)
	insertCount := s.encoder.Table().InsertCount()
	s.mu.Unlock()

	s.writeInstruction(w, instruction, insertCount, err)
}

func (s *Server) handleInsertNameRef(w http.ResponseWriter, r *http.Request) {
	var req insertNameRefRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	s.mu.Lock()
	instruction, err := s.encoder.InsertWithNameRef(req.Index, req.Value, req.Static)
	insertCount := s.encoder.Table().InsertCount()
	s.mu.Unlock()

	s.writeInstruction(w, instruction, insertCount, err)
}

func (s *Server) handleInsertLiteral(w http.ResponseWriter, r *http.Request) {
	var req insertLiteralRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	if req.Huffman {
		// Surface the codec's own not-supported signal instead of
		// inventing a second one.
		_, err := qpack.EncodeString(req.Name, true)
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	instruction, err := s.encoder.InsertWithLiteralName(req.Name, req.Value)
	insertCount := s.encoder.Table().InsertCount()
	s.mu.Unlock()

	s.writeInstruction(w, instruction, insertCount, err)
}

func (s *Server) handleDuplicate(w http.ResponseWriter, r *http.Request) {
	var req duplicateRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	s.mu.Lock()
	instruction, err := s.encoder.Duplicate(req.Index)
	insertCount := s.encoder.Table().InsertCount()
	s.mu.Unlock()

	s.writeInstruction(w, instruction, insertCount, err)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	table := s.encoder.Table()
	resp := tableResponse{
		Capacity:         table.Capacity(),
		MaxTableCapacity: s.encoder.MaxTableCapacity(),
		CurrentSize:      table.CurrentSize(),
		InsertCount:      table.InsertCount(),
		Entries:          []tableEntry{},
	}
	for _, e := range table.Entries() {
		resp.Entries = append(resp.Entries, tableEntry{Name: e.Name, Value: e.Value})
	}
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMaxTableCapacity(w http.ResponseWriter, r *http.Request) {
	var req maxTableCapacityRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	s.mu.Lock()
	s.encoder.SetMaxTableCapacity(req.MaxTableCapacity)
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, maxTableCapacityRequest{MaxTableCapacity: req.MaxTableCapacity})
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		s.Logger.Log(logging.LogLevelWarn, "Rejected malformed request body: %v", err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "bad_request", Error: err.Error()})
		return false
	}
	return true
}

func (s *Server) writeInstruction(w http.ResponseWriter, instruction []byte, insertCount int, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.Logger.Log(logging.LogLevelDebug, "Emitted instruction %s", hex.EncodeToString(instruction))
	s.writeJSON(w, http.StatusOK, instructionResponse{
		Instruction: hex.EncodeToString(instruction),
		InsertCount: insertCount,
	})
}

// writeError maps codec failures onto stable kind strings the harness
// branches on.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var kind string
	switch {
	case errors.Is(err, qpack.ErrNotSupported):
		kind = "not_supported"
	case errors.Is(err, qpack.ErrCapacityExceedsLimit):
		kind = "capacity_exceeds_limit"
	case errors.Is(err, qpack.ErrEntryTooLarge):
		kind = "entry_too_large"
	case errors.Is(err, qpack.ErrIndexOutOfRange):
		kind = "index_out_of_range"
	case errors.Is(err, qpack.ErrInvalidArgument):
		kind = "invalid_argument"
	default:
		kind = "internal"
	}

	s.Logger.Log(logging.LogLevelWarn, "Rejected instruction request: %v", err)
	s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Kind: kind, Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.Logger.Log(logging.LogLevelError, "Failed to write response: %v", err)
	}
}
