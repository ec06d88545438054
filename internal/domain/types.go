package domain

import (
	"math/big"
	"strings"
	"time"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"

	evmNamespace = "eip155:"
)

// IsValidChain checks if a chain is a well-formed EVM chain identifier
func IsValidChain(chain Chain) bool {
	_, ok := chain.EVMChainID()
	return ok
}

// EVMChainID returns the numeric chain ID of an eip155 chain
func (c Chain) EVMChainID() (*big.Int, bool) {
	reference, ok := strings.CutPrefix(string(c), evmNamespace)
	if !ok || reference == "" || strings.HasPrefix(reference, "0") || strings.HasPrefix(reference, "+") {
		return nil, false
	}

	id, ok := new(big.Int).SetString(reference, 10)
	if !ok || id.Sign() <= 0 {
		return nil, false
	}
	return id, true
}

// Block identifies a block by number and hash
type Block struct {
	Number uint64 `json:"number"`
	Hash   string `json:"hash"`
}

// EventContent is the decoded contract event payload.
// It is decoded once when the raw log is ingested and published as-is when the event is finalized.
type EventContent struct {
	Address          string         `json:"address"`
	BlockNumber      uint64         `json:"blockNumber"`
	BlockHash        string         `json:"blockHash"`
	TransactionHash  string         `json:"transactionHash"`
	TransactionIndex uint           `json:"transactionIndex"`
	LogIndex         uint           `json:"logIndex"`
	Event            string         `json:"event"`
	Signature        string         `json:"signature"`
	Topics           []string       `json:"topics,omitempty"`
	Data             string         `json:"data,omitempty"`
	ReturnValues     map[string]any `json:"returnValues,omitempty"`
}

// Event is a pending contract event occurrence waiting for confirmations
type Event struct {
	ID                 string       `json:"id"`
	ContractAddress    string       `json:"contractAddress"`
	TransactionHash    string       `json:"transactionHash"`
	BlockNumber        uint64       `json:"blockNumber"`
	BlockHash          string       `json:"blockHash"`
	LogIndex           uint         `json:"logIndex"`
	Event              string       `json:"event"`
	Content            EventContent `json:"content"`
	TargetConfirmation uint64       `json:"targetConfirmation"`
	Emitted            bool         `json:"emitted"`
	CreatedAt          time.Time    `json:"createdAt"`
}

// EventGroup is a pending (transactionHash, event) pair as aggregated by the event store
type EventGroup struct {
	TransactionHash    string `json:"transactionHash"`
	Event              string `json:"event"`
	BlockNumber        uint64 `json:"blockNumber"`
	TargetConfirmation uint64 `json:"targetConfirmation"`
}

// ConfirmationStatus is a read-only summary of the confirmation progress of a pending event
type ConfirmationStatus struct {
	Event              string `json:"event"`
	TransactionHash    string `json:"transactionHash"`
	Confirmations      int64  `json:"confirmations"`
	TargetConfirmation uint64 `json:"targetConfirmation"`
}
