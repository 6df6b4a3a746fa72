package etherscan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EtherscanEnvelope is the native response shape.
// Example response:
//
//	{
//	  "status": "0",
//	  "message": "NOTOK",
//	  "result": "Invalid API Key"
//	}
type EtherscanEnvelope struct {
	Status  string
	Message string
	Result  json.RawMessage
}

// JSONRPCEnvelope is the shape returned by the proxy module.
// Example response:
//
//	{
//	  "jsonrpc": "2.0",
//	  "id": 1,
//	  "result": "0x10d4f"
//	}
type JSONRPCEnvelope struct {
	JSONRPC string
	ID      json.RawMessage
	Result  json.RawMessage
	Error   *RPCError
}

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("json-rpc error %d: %s", e.Code, e.Message)
}

// envelope joins the two response shapes for the classifier and the decoders.
type envelope interface {
	classify() (ErrorKind, string)
	result() json.RawMessage
}

// resultRules is matched in order against the result string of a failed
// native response. Matching is case-sensitive substring containment.
var resultRules = []struct {
	substr string
	kind   ErrorKind
}{
	{"Max rate limit reached", MaxRateError},
	{"upgrade to API Pro", ProRequiredError},
	{"No records found", NoRecorsFoundError},
	{"Invalid API Key", InvalidAPIKeyError},
	{"Invalid address format", InvalidAddressFormatError},
	{"Missing Or invalid Module", InvalidModuleNameError},
	{"Missing Or invalid Action", InvalidActionNameError},
	{"Missing or invalid parameter", InvalidParameterError},
}

const noTransactionsFound = "No transactions found"

func (e *EtherscanEnvelope) classify() (ErrorKind, string) {
	if e.Status == "1" {
		return NoError, ""
	}
	if e.Message == noTransactionsFound {
		return NoTransactionsFoundError, e.Message
	}

	text := e.ResultString()
	for _, rule := range resultRules {
		if strings.Contains(text, rule.substr) {
			return rule.kind, text
		}
	}
	if text == "" {
		return UnknownError, e.Message
	}
	return UnknownError, text
}

func (e *EtherscanEnvelope) result() json.RawMessage {
	return e.Result
}

// ResultString returns result when it is a JSON string, and "" otherwise.
func (e *EtherscanEnvelope) ResultString() string {
	var s string
	if err := json.Unmarshal(e.Result, &s); err != nil {
		return ""
	}
	return s
}

// JSON-RPC failures live in the result, not in the envelope.
func (e *JSONRPCEnvelope) classify() (ErrorKind, string) {
	return NoError, ""
}

func (e *JSONRPCEnvelope) result() json.RawMessage {
	return e.Result
}

// parseEnvelope reads body into one of the two envelope variants. It reports
// false for empty bodies and anything that is not a JSON object.
func parseEnvelope(body []byte) (envelope, bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, false
	}

	status := scalarText(fields["status"])
	if _, isRPC := fields["jsonrpc"]; isRPC && status != "1" {
		rpc := &JSONRPCEnvelope{
			JSONRPC: scalarText(fields["jsonrpc"]),
			ID:      fields["id"],
			Result:  fields["result"],
		}
		if raw, ok := fields["error"]; ok && !isNull(raw) {
			var rpcErr RPCError
			if err := json.Unmarshal(raw, &rpcErr); err == nil {
				rpc.Error = &rpcErr
			} else {
				rpc.Error = &RPCError{Message: string(raw)}
			}
		}
		return rpc, true
	}

	return &EtherscanEnvelope{
		Status:  status,
		Message: scalarText(fields["message"]),
		Result:  fields["result"],
	}, true
}

// Classify applies the response classification rules to a raw body and
// returns the kind together with the service's diagnostic message.
func Classify(body []byte) (ErrorKind, string) {
	env, ok := parseEnvelope(body)
	if !ok {
		return NetworkError, "empty or unparseable response"
	}
	return env.classify()
}
