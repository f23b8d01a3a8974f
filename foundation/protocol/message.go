package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// RequestKind identifies the operation a client asks the node to perform.
type RequestKind string

// Set of request kinds. The values are the json tags used on the wire.
const (
	AddTransaction RequestKind = "AddTransaction"
	MineBlock      RequestKind = "MineBlock"
	GetBalance     RequestKind = "GetBalance"
	GetChain       RequestKind = "GetChain"
	GenerateWallet RequestKind = "GenerateWallet"
)

// ResponseKind identifies the shape of a node reply.
type ResponseKind string

// Set of response kinds. The values are the json tags used on the wire.
const (
	Success    ResponseKind = "Success"
	Blockchain ResponseKind = "Blockchain"
	Balance    ResponseKind = "Balance"
	Wallet     ResponseKind = "Wallet"
	Error      ResponseKind = "Error"
)

// ErrUnknownKind is returned when decoding a message with an unknown tag.
var ErrUnknownKind = errors.New("unknown message kind")

// =============================================================================

// Request is a single client request. Only the field that belongs to Kind
// is meaningful.
type Request struct {
	Kind    RequestKind
	Tx      database.Tx // AddTransaction
	Address string      // MineBlock, GetBalance
}

// NewAddTransaction constructs a request to add a transaction to the pool.
func NewAddTransaction(tx database.Tx) Request {
	return Request{Kind: AddTransaction, Tx: tx}
}

// NewMineBlock constructs a request to mine the pending pool.
func NewMineBlock(miner string) Request {
	return Request{Kind: MineBlock, Address: miner}
}

// NewGetBalance constructs a request for the balance of an address.
func NewGetBalance(address string) Request {
	return Request{Kind: GetBalance, Address: address}
}

// NewGetChain constructs a request for a chain snapshot.
func NewGetChain() Request {
	return Request{Kind: GetChain}
}

// NewGenerateWallet constructs a request for a fresh key pair.
func NewGenerateWallet() Request {
	return Request{Kind: GenerateWallet}
}

// MarshalJSON encodes the request as an externally tagged value. Variants
// with data encode as {"Kind":data}, unit variants as "Kind".
func (r Request) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case AddTransaction:
		return json.Marshal(map[RequestKind]database.Tx{r.Kind: r.Tx})
	case MineBlock, GetBalance:
		return json.Marshal(map[RequestKind]string{r.Kind: r.Address})
	case GetChain, GenerateWallet:
		return json.Marshal(r.Kind)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
}

// UnmarshalJSON decodes an externally tagged request.
func (r *Request) UnmarshalJSON(data []byte) error {
	kind, body, err := splitTagged(data)
	if err != nil {
		return err
	}

	req := Request{Kind: RequestKind(kind)}

	switch req.Kind {
	case AddTransaction:
		if err := decodeBody(body, &req.Tx); err != nil {
			return fmt.Errorf("decoding %s: %w", kind, err)
		}

	case MineBlock, GetBalance:
		if err := decodeBody(body, &req.Address); err != nil {
			return fmt.Errorf("decoding %s: %w", kind, err)
		}

	case GetChain, GenerateWallet:
		if body != nil {
			return fmt.Errorf("decoding %s: unexpected content", kind)
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	*r = req
	return nil
}

// =============================================================================

// WalletKeys carries a freshly generated key pair back to a client.
type WalletKeys struct {
	Address    string `json:"address"`
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
}

// Response is a single node reply. Only the field that belongs to Kind is
// meaningful.
type Response struct {
	Kind     ResponseKind
	Message  string            // Success, Error
	Snapshot database.Snapshot // Blockchain
	Balance  uint64            // Balance
	Wallet   WalletKeys        // Wallet
}

// NewSuccess constructs a success reply.
func NewSuccess(message string) Response {
	return Response{Kind: Success, Message: message}
}

// NewError constructs an error reply.
func NewError(message string) Response {
	return Response{Kind: Error, Message: message}
}

// NewBlockchain constructs a chain snapshot reply.
func NewBlockchain(snap database.Snapshot) Response {
	return Response{Kind: Blockchain, Snapshot: snap}
}

// NewBalance constructs a balance reply.
func NewBalance(amount uint64) Response {
	return Response{Kind: Balance, Balance: amount}
}

// NewWallet constructs a wallet reply.
func NewWallet(keys WalletKeys) Response {
	return Response{Kind: Wallet, Wallet: keys}
}

// Err converts an Error reply into a Go error and returns nil for any
// other kind.
func (r Response) Err() error {
	if r.Kind != Error {
		return nil
	}

	return errors.New(r.Message)
}

// MarshalJSON encodes the response as an externally tagged value.
func (r Response) MarshalJSON() ([]byte, error) {
	var body any

	switch r.Kind {
	case Success, Error:
		body = r.Message
	case Blockchain:
		body = r.Snapshot
	case Balance:
		body = r.Balance
	case Wallet:
		body = r.Wallet
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}

	return json.Marshal(map[ResponseKind]any{r.Kind: body})
}

// UnmarshalJSON decodes an externally tagged response.
func (r *Response) UnmarshalJSON(data []byte) error {
	kind, body, err := splitTagged(data)
	if err != nil {
		return err
	}

	resp := Response{Kind: ResponseKind(kind)}

	var target any
	switch resp.Kind {
	case Success, Error:
		target = &resp.Message
	case Blockchain:
		target = &resp.Snapshot
	case Balance:
		target = &resp.Balance
	case Wallet:
		target = &resp.Wallet
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if err := decodeBody(body, target); err != nil {
		return fmt.Errorf("decoding %s: %w", kind, err)
	}

	*r = resp
	return nil
}

// =============================================================================

// splitTagged separates an externally tagged value into its tag and body.
// A bare string is a unit variant and returns a nil body. A null body is
// treated as absent, so {"Kind":null} reads as a unit variant.
func splitTagged(data []byte) (string, json.RawMessage, error) {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var kind string
		if err := json.Unmarshal(data, &kind); err != nil {
			return "", nil, err
		}
		return kind, nil, nil
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return "", nil, err
	}

	if len(m) != 1 {
		return "", nil, fmt.Errorf("expected one tagged value, got %d", len(m))
	}

	for kind, body := range m {
		if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
			body = nil
		}
		return kind, body, nil
	}

	return "", nil, nil
}

// decodeBody decodes the body of a tagged value, failing when the variant
// requires content and none was supplied.
func decodeBody(body json.RawMessage, v any) error {
	if body == nil {
		return errors.New("missing content")
	}

	return json.Unmarshal(body, v)
}

// =============================================================================

// EncodeRequest encodes a request into a frame payload.
func EncodeRequest(req Request) ([]byte, error) {
	return json.Marshal(req)
}

// DecodeRequest decodes a frame payload into a request.
func DecodeRequest(payload []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return Request{}, err
	}

	return req, nil
}

// EncodeResponse encodes a response into a frame payload.
func EncodeResponse(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}

// DecodeResponse decodes a frame payload into a response.
func DecodeResponse(payload []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return Response{}, err
	}

	return resp, nil
}
