// Package invoice implements the invoice payload carried between seller
// and buyer inside a QR code, and its mapping into a payment request.
package invoice

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Ariya-Dice/Liqopay/registry"
	"github.com/Ariya-Dice/Liqopay/types"
)

var validate = validator.New()

// Payload is the serialized invoice record: the seller flow produces it,
// the buyer flow scans and parses it. Amount is a decimal string in token
// units; Network is a human display name (e.g. "Ethereum").
type Payload struct {
	Address   string `json:"address" validate:"required"`
	Currency  string `json:"currency" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	Network   string `json:"network" validate:"required"`
	InvoiceID string `json:"invoiceId,omitempty"`
}

// display-name → chain family, lowercase keys
var networksByName = map[string]types.Network{
	"ethereum":            types.NetworkEthereum,
	"eth":                 types.NetworkEthereum,
	"bsc":                 types.NetworkBSC,
	"bnb smart chain":     types.NetworkBSC,
	"binance smart chain": types.NetworkBSC,
	"hyperliquid":         types.NetworkHyperliquid,
	"base":                types.NetworkBase,
	"tron":                types.NetworkTron,
	"solana":              types.NetworkSolana,
	"bitcoin":             types.NetworkBitcoin,
}

// Parse decodes and validates a scanned payload. Malformed payloads are
// rejected here, before anything reaches the payment builder.
func Parse(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid invoice payload: %w", err)
	}
	if err := validate.Struct(&p); err != nil {
		return nil, fmt.Errorf("incomplete invoice payload: %w", err)
	}
	return &p, nil
}

// Encode serializes the payload for QR embedding.
func (p *Payload) Encode() ([]byte, error) {
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("incomplete invoice payload: %w", err)
	}
	return json.Marshal(p)
}

// PaymentInfo maps the payload into an immutable payment request,
// resolving the display name to a chain family and its canonical chain ID.
func (p *Payload) PaymentInfo(reg *registry.Registry) (*types.PaymentInfo, error) {
	network, ok := networksByName[strings.ToLower(strings.TrimSpace(p.Network))]
	if !ok {
		return nil, fmt.Errorf("unknown network %q in invoice", p.Network)
	}

	amount, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice amount %q: %w", p.Amount, err)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("invoice amount must be greater than zero, got %s", p.Amount)
	}

	chainID, _ := reg.CanonicalChainID(network)

	return &types.PaymentInfo{
		Network:   network,
		ChainID:   chainID,
		Recipient: p.Address,
		Amount:    amount,
		Token:     strings.ToUpper(p.Currency),
		InvoiceID: p.InvoiceID,
	}, nil
}
