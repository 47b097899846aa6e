package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractionMode selects how much of a file an extraction request pulls.
type ExtractionMode string

const (
	// FirstChars bounds extraction by a number of UTF-8 characters.
	FirstChars ExtractionMode = "first_chars"

	// FirstPages bounds extraction by a number of pages. Only meaningful
	// for page-oriented formats; others treat it as FirstChars.
	FirstPages ExtractionMode = "first_pages"
)

// ExtractionRequest controls a bounded text pull from one file.
type ExtractionRequest struct {
	Mode   ExtractionMode `json:"type"`
	Amount int            `json:"amount"`
}

// DefaultExtractionRequest is applied when the oracle omits parameters.
func DefaultExtractionRequest() ExtractionRequest {
	return ExtractionRequest{Mode: FirstChars, Amount: 500}
}

// DecisionKind is the tag of an oracle reply.
type DecisionKind string

const (
	DecisionRename       DecisionKind = "rename"
	DecisionNeedMoreData DecisionKind = "need_more_data"
)

// Decision is the oracle's structured reply. Exactly one of the two
// variants is populated, selected by Kind.
type Decision struct {
	Kind DecisionKind

	// NewName is set for rename decisions.
	NewName string

	// Action, Target and Parameters are set for need_more_data decisions.
	// Target is a file name or glob pattern that must be resolved against
	// the inventory before any extraction is attempted.
	Action     string
	Target     string
	Parameters ExtractionRequest
}

// wireDecision mirrors the JSON the oracle is instructed to produce:
//
//	{"decision":"rename","new_name":"..."}
//	{"decision":"need_more_data","action":"...","target":"...",
//	 "parameters":{"type":"first_chars","amount":500}}
type wireDecision struct {
	Decision   string             `json:"decision"`
	NewName    string             `json:"new_name"`
	Action     string             `json:"action"`
	Target     string             `json:"target"`
	Parameters *ExtractionRequest `json:"parameters"`
}

// ErrUnknownDecision reports an oracle reply whose tag is missing or not
// one of the known variants.
type ErrUnknownDecision struct {
	Tag string
}

func (e *ErrUnknownDecision) Error() string {
	if e.Tag == "" {
		return "oracle reply has no decision tag"
	}
	return fmt.Sprintf("unknown decision tag %q", e.Tag)
}

// ParseDecision validates an untrusted oracle reply. The raw text may be
// wrapped in a markdown code fence; everything else must be a single JSON
// object matching the wire schema.
func ParseDecision(raw string) (*Decision, error) {
	cleaned := StripCodeFence(raw)

	var w wireDecision
	if err := json.Unmarshal([]byte(cleaned), &w); err != nil {
		return nil, fmt.Errorf("parsing oracle reply: %w", err)
	}

	switch DecisionKind(w.Decision) {
	case DecisionRename:
		if strings.TrimSpace(w.NewName) == "" {
			return nil, fmt.Errorf("rename decision with empty new_name")
		}
		return &Decision{Kind: DecisionRename, NewName: w.NewName}, nil

	case DecisionNeedMoreData:
		if strings.TrimSpace(w.Target) == "" {
			return nil, fmt.Errorf("need_more_data decision with empty target")
		}
		req := DefaultExtractionRequest()
		if w.Parameters != nil {
			req = *w.Parameters
			if req.Mode != FirstChars && req.Mode != FirstPages {
				req.Mode = FirstChars
			}
			if req.Amount <= 0 {
				req.Amount = DefaultExtractionRequest().Amount
			}
		}
		return &Decision{
			Kind:       DecisionNeedMoreData,
			Action:     w.Action,
			Target:     w.Target,
			Parameters: req,
		}, nil

	default:
		return nil, &ErrUnknownDecision{Tag: w.Decision}
	}
}

// StripCodeFence removes a surrounding markdown code fence, with or
// without a language marker, from an oracle reply.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 && !strings.HasPrefix(s, "{") {
		// Drop the language marker line (e.g. "json").
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
