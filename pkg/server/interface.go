/*
Package server implements msgpack IPC for Scrabble word suggestions.

The server reads a stream of msgpack maps from stdin and answers each one with
a single msgpack map on stdout. Messages are processed synchronously, in order,
and every response carries the ID of the request it answers.

# IPC

A suggestion request names the query letters and an optional limit:

	{"id": "req_001", "q": "dog", "l": 3}

The server responds with the best scoring words that contain the query,
highest score first:

	{"id": "req_001", "s": [{"w": "endogeny", "p": 13}, {"w": "fogdog", "p": 12}, {"w": "firedog", "p": 12}], "c": 3, "t": 412}

t is the time spent in microseconds. A missing or zero limit uses the
configured default; limits above the server maximum are clamped.

Two actions exist besides suggestions:

	{"id": "h1", "action": "health"}
	{"id": "s1", "action": "stats"}

health answers {"id": "h1", "status": "ok"}. stats reports the loaded index
parameters and the number of requests served.

Failures are reported with an ErrorResponse and the server keeps running:

	{"id": "req_002", "e": "query \"d0g\" should only contain letters", "c": 400}
*/
package server

// Request is the union of every message a client may send.
// An empty Action means "suggest".
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action,omitempty"`
	Query  string `msgpack:"q,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
}

// Suggestion is one scored word.
type Suggestion struct {
	Word  string `msgpack:"w"`
	Score int    `msgpack:"p"`
}

// SuggestResponse answers a suggestion request.
type SuggestResponse struct {
	ID          string       `msgpack:"id"`
	Suggestions []Suggestion `msgpack:"s"`
	Count       int          `msgpack:"c"`
	TimeTaken   int64        `msgpack:"t"`
}

// StatusResponse answers health checks.
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// StatsResponse describes the loaded index.
type StatsResponse struct {
	ID       string `msgpack:"id"`
	Words    int    `msgpack:"words"`
	MaxNGram int    `msgpack:"max_ngram"`
	Buckets  int    `msgpack:"buckets"`
	Hash     string `msgpack:"hash"`
	Requests int    `msgpack:"requests"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

const (
	ActionSuggest = "suggest"
	ActionHealth  = "health"
	ActionStats   = "stats"
)
