/*
Package server implements msgpack IPC for the rewrite pipeline.

Clients write msgpack-encoded requests back to back on stdin and read one
response per request from stdout. Requests are handled one at a time, in
arrival order. On start the server sends a health message with status
"ready".

A rewrite request carries the document text and the target words:

	{"id": "req_001", "cmd": "rewrite", "text": "The quick brown fox jumps.", "words": ["quick", "fox"]}

The response holds the rewritten text, the paragraph count and the time
taken in microseconds:

	{"id": "req_001", "text": "The speedy brown wolf jumps.", "n": 1, "t": 1450}

An optional "scope" of "paragraph" or "sentence" overrides the resolution
scope for one request. A health request answers {"id": ..., "status": "ok"}.

Failed requests get {"id": ..., "e": "message", "c": code} with HTTP-like
codes: 400 for bad requests, 500 for internal failures and 503 when the
server is shutting down. End of input stops the server cleanly.
*/
package server

// Commands understood by the server.
const (
	CmdRewrite = "rewrite"
	CmdHealth  = "health"
)

// Request is one client message.
type Request struct {
	ID    string   `msgpack:"id"`
	Cmd   string   `msgpack:"cmd"`
	Text  string   `msgpack:"text,omitempty"`
	Words []string `msgpack:"words,omitempty"`
	Scope string   `msgpack:"scope,omitempty"`
}

// RewriteResponse - rewrite result
type RewriteResponse struct {
	ID         string `msgpack:"id"`
	Text       string `msgpack:"text"`
	Paragraphs int    `msgpack:"n"`
	TimeTaken  int64  `msgpack:"t"`
}

// HealthResponse - status message, also sent once on start
type HealthResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
