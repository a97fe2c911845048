// Package cli runs the interactive query loop used for manual testing of an index.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/scrabbler/internal/utils"
	"github.com/bastiangx/scrabbler/pkg/score"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Suggester is the subset of *suggest.Suggester the loop needs.
type Suggester interface {
	Suggest(query string, top int) ([]score.Word, error)
}

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler reads queries line by line and prints the top suggestions
// for each one. Queries are validated against the configured length bounds
// and must contain letters only.
type InputHandler struct {
	suggester      Suggester
	minQueryLength int
	maxQueryLength int
	limit          int
	requestCount   int
	out            io.Writer
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(s Suggester, minLength, maxLength, limit int, out io.Writer) *InputHandler {
	return &InputHandler{
		suggester:      s,
		minQueryLength: minLength,
		maxQueryLength: maxLength,
		limit:          limit,
		out:            out,
	}
}

// Start loops until in is exhausted. io.EOF ends the loop cleanly; failed
// queries are logged and the loop goes on.
func (h *InputHandler) Start(in io.Reader) error {
	log.Print("Scrabbler interactive mode")
	log.Print("type some letters and press Enter to see suggestions (Ctrl+D to exit):")

	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadString('\n')
		if q := strings.TrimSpace(line); q != "" {
			if qerr := h.HandleQuery(q); qerr != nil {
				log.Error("Query failed", "err", qerr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// HandleQuery validates a single query and prints its suggestions as
// "word (score)" lines, best first. Invalid queries and misses print the
// no-suggestion line; a failing index is returned as an error.
func (h *InputHandler) HandleQuery(query string) error {
	h.requestCount++

	if err := utils.ValidateQuery(query, h.minQueryLength, h.maxQueryLength); err != nil {
		log.Warn("Rejected query", "err", err)
		h.noSuggestion(query)
		return nil
	}

	start := time.Now()
	words, err := h.suggester.Suggest(query, h.limit)
	log.Debugf("Took [ %v ] for query '%s'", time.Since(start), query)
	if err != nil {
		return fmt.Errorf("query %q: %w", query, err)
	}
	if len(words) == 0 {
		h.noSuggestion(query)
		return nil
	}

	for _, w := range words {
		fmt.Fprintf(h.out, "%s (%d)\n", wordStyle.Render(w.Text), w.Score)
	}
	return nil
}

// Requests returns how many queries were handled so far.
func (h *InputHandler) Requests() int {
	return h.requestCount
}

func (h *InputHandler) noSuggestion(query string) {
	fmt.Fprintf(h.out, "Sorry, there is no suggestion for %s.\n", query)
}
