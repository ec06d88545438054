package ethereum_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/providers/ethereum"
)

const testABI = `[
	{"anonymous":false,"inputs":[
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":true,"name":"tokenId","type":"uint256"}
	],"name":"Transfer","type":"event"},
	{"anonymous":false,"inputs":[
		{"indexed":true,"name":"owner","type":"address"},
		{"indexed":false,"name":"amount","type":"uint256"},
		{"indexed":false,"name":"memo","type":"string"}
	],"name":"Deposit","type":"event"}
]`

var (
	contractAddress = common.HexToAddress("0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D")
	fromAddress     = common.HexToAddress("0x0000000000000000000000000000000000000000")
	toAddress       = common.HexToAddress("0x457ee5f723C7606c12a7264b52e285906F91eEA6")
	transferTopic   = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
	depositTopic    = crypto.Keccak256Hash([]byte("Deposit(address,uint256,string)"))
)

func newDecoder(t *testing.T) ethereum.EventDecoder {
	decoder, err := ethereum.NewEventDecoder(testABI, ethereum.DecoderConfig{
		DefaultTargetConfirmation: 12,
		TargetConfirmations:       map[string]uint64{"Deposit": 30},
	})
	require.NoError(t, err)
	return decoder
}

func transferLog() types.Log {
	return types.Log{
		Address: contractAddress,
		Topics: []common.Hash{
			transferTopic,
			common.BytesToHash(fromAddress.Bytes()),
			common.BytesToHash(toAddress.Bytes()),
			common.BigToHash(big.NewInt(42)),
		},
		BlockNumber: 100,
		BlockHash:   common.HexToHash("0xb100"),
		TxHash:      common.HexToHash("0xa1"),
		TxIndex:     3,
		Index:       7,
	}
}

func TestNewEventDecoder_Validation(t *testing.T) {
	_, err := ethereum.NewEventDecoder("not json", ethereum.DecoderConfig{DefaultTargetConfirmation: 1})
	assert.Error(t, err)

	_, err = ethereum.NewEventDecoder(testABI, ethereum.DecoderConfig{})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = ethereum.NewEventDecoder(testABI, ethereum.DecoderConfig{
		DefaultTargetConfirmation: 1,
		TargetConfirmations:       map[string]uint64{"Transfer": 0},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestEventDecoder_DecodeIndexedEvent(t *testing.T) {
	decoder := newDecoder(t)

	// Act
	event, err := decoder.Decode(transferLog())

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, contractAddress.Hex(), event.ContractAddress)
	assert.Equal(t, common.HexToHash("0xa1").Hex(), event.TransactionHash)
	assert.Equal(t, uint64(100), event.BlockNumber)
	assert.Equal(t, common.HexToHash("0xb100").Hex(), event.BlockHash)
	assert.Equal(t, uint(7), event.LogIndex)
	assert.Equal(t, "Transfer", event.Event)
	assert.Equal(t, uint64(12), event.TargetConfirmation)
	assert.False(t, event.Emitted)

	content := event.Content
	assert.Equal(t, transferTopic.Hex(), content.Signature)
	assert.Equal(t, uint(3), content.TransactionIndex)
	assert.Len(t, content.Topics, 4)
	assert.Equal(t, fromAddress.Hex(), content.ReturnValues["from"])
	assert.Equal(t, toAddress.Hex(), content.ReturnValues["to"])
	assert.Equal(t, "42", content.ReturnValues["tokenId"])
}

func TestEventDecoder_DecodeDataEvent(t *testing.T) {
	decoder := newDecoder(t)

	parsed := mustParseABI(t)
	data, err := parsed.Events["Deposit"].Inputs.NonIndexed().Pack(big.NewInt(1_000_000), "hello")
	require.NoError(t, err)

	vLog := types.Log{
		Address:     contractAddress,
		Topics:      []common.Hash{depositTopic, common.BytesToHash(toAddress.Bytes())},
		Data:        data,
		BlockNumber: 200,
		BlockHash:   common.HexToHash("0xb200"),
		TxHash:      common.HexToHash("0xa2"),
	}

	// Act
	event, err := decoder.Decode(vLog)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Deposit", event.Event)
	assert.Equal(t, uint64(30), event.TargetConfirmation)
	assert.Equal(t, toAddress.Hex(), event.Content.ReturnValues["owner"])
	assert.Equal(t, "1000000", event.Content.ReturnValues["amount"])
	assert.Equal(t, "hello", event.Content.ReturnValues["memo"])
}

func TestEventDecoder_RejectsInvalidLogs(t *testing.T) {
	decoder := newDecoder(t)

	removed := transferLog()
	removed.Removed = true

	noTopics := transferLog()
	noTopics.Topics = nil

	unknown := transferLog()
	unknown.Topics[0] = crypto.Keccak256Hash([]byte("Approval(address,address,uint256)"))

	for name, vLog := range map[string]types.Log{
		"removed":   removed,
		"no topics": noTopics,
		"unknown":   unknown,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decoder.Decode(vLog)
			assert.ErrorIs(t, err, domain.ErrInvalidEventLog)
		})
	}
}
