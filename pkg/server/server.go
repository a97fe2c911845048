package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/scrabbler/internal/utils"
	"github.com/bastiangx/scrabbler/pkg/config"
	"github.com/bastiangx/scrabbler/pkg/dictionary"
	"github.com/bastiangx/scrabbler/pkg/score"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Index is what the server needs from a loaded *suggest.Suggester.
type Index interface {
	Suggest(query string, top int) ([]score.Word, error)
	Words() int
	MaxNGram() int
	Buckets() int
	Hash() dictionary.HashKind
}

// Server handles msgpack IPC for suggestions
type Server struct {
	index    Index
	config   *config.Config
	dec      *msgpack.Decoder
	out      *bufio.Writer
	enc      *msgpack.Encoder
	requests int
}

// NewServer creates a server reading requests from in and writing
// responses to out. A nil cfg uses config.DefaultConfig.
func NewServer(index Index, cfg *config.Config, in io.Reader, out io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	w := bufio.NewWriter(out)
	return &Server{
		index:  index,
		config: cfg,
		dec:    msgpack.NewDecoder(bufio.NewReader(in)),
		out:    w,
		enc:    msgpack.NewEncoder(w),
	}
}

// Start processes requests until the input is closed.
// A request that is valid msgpack but not a valid Request gets an
// ErrorResponse; a broken msgpack stream ends the loop with an error.
func (s *Server) Start() error {
	log.Debug("Starting msgpack server")

	for {
		var raw msgpack.RawMessage
		if err := s.dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			return fmt.Errorf("failed to read request: %w", err)
		}
		s.requests++

		if err := s.handle(raw); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
}

// Requests returns the number of messages read so far.
func (s *Server) Requests() int {
	return s.requests
}

func (s *Server) handle(raw msgpack.RawMessage) error {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		log.Errorf("Unmarshaling request: %v", err)
		return s.send(ErrorResponse{Error: "invalid request", Code: 400})
	}

	switch req.Action {
	case "", ActionSuggest:
		return s.send(s.suggest(req))
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	case ActionStats:
		return s.send(StatsResponse{
			ID:       req.ID,
			Words:    s.index.Words(),
			MaxNGram: s.index.MaxNGram(),
			Buckets:  s.index.Buckets(),
			Hash:     string(s.index.Hash()),
			Requests: s.requests,
		})
	default:
		return s.send(ErrorResponse{ID: req.ID, Error: fmt.Sprintf("unknown action: %s", req.Action), Code: 400})
	}
}

func (s *Server) suggest(req Request) any {
	q := s.config.Query
	if err := utils.ValidateQuery(req.Query, q.MinQueryLen, q.MaxQueryLen); err != nil {
		log.Debug("Rejected query", "id", req.ID, "err", err)
		return ErrorResponse{ID: req.ID, Error: err.Error(), Code: 400}
	}

	start := time.Now()
	words, err := s.index.Suggest(req.Query, s.limit(req.Limit))
	elapsed := time.Since(start)
	if err != nil {
		log.Errorf("Query '%s' failed: %v", req.Query, err)
		return ErrorResponse{ID: req.ID, Error: err.Error(), Code: 500}
	}

	suggestions := make([]Suggestion, 0, len(words))
	for _, w := range words {
		suggestions = append(suggestions, Suggestion{Word: w.Text, Score: w.Score})
	}
	log.Debugf("Took [ %v ] for query '%s'", elapsed, req.Query)
	return SuggestResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}
}

// limit applies the default and clamps to the server maximum.
func (s *Server) limit(requested int) int {
	if requested < 1 {
		requested = s.config.Query.DefaultLimit
	}
	return min(requested, s.config.Server.MaxLimit)
}

func (s *Server) send(resp any) error {
	if err := s.enc.Encode(resp); err != nil {
		return err
	}
	return s.out.Flush()
}
