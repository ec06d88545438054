package dto

import (
	"github.com/feral-file/ff-confirmator/internal/domain"
)

// ConfirmationsResponse lists the pending confirmations of a contract
type ConfirmationsResponse struct {
	ContractAddress string                      `json:"contract_address"`
	Confirmations   []domain.ConfirmationStatus `json:"confirmations"`
}

// ContractsResponse lists the tracked contracts
type ContractsResponse struct {
	Contracts []string `json:"contracts"`
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
