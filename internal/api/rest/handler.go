package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-confirmator/internal/api/rest/dto"
	"github.com/feral-file/ff-confirmator/internal/confirmator"
)

const serviceName = "ff-confirmator"

// Pinger reports whether a backing dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler,Pinger=MockPinger
type Handler interface {
	// ListConfirmations returns the confirmation progress of the pending events of a contract
	// GET /api/v1/confirmations?contract=<address>
	ListConfirmations(c *gin.Context)

	// ListContracts returns the tracked contracts
	// GET /api/v1/contracts
	ListContracts(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	service   confirmator.Service
	pinger    Pinger
	contracts map[string]string
	// ordered keeps the configured order for listing
	ordered []string
}

// NewHandler creates a new REST API handler serving the given contracts
func NewHandler(service confirmator.Service, pinger Pinger, contracts []string) Handler {
	known := make(map[string]string, len(contracts))
	ordered := make([]string, 0, len(contracts))
	for _, c := range contracts {
		key := strings.ToLower(c)
		if _, ok := known[key]; ok {
			continue
		}
		known[key] = c
		ordered = append(ordered, c)
	}

	return &handler{
		service:   service,
		pinger:    pinger,
		contracts: known,
		ordered:   ordered,
	}
}

// ListConfirmations returns the confirmation progress of the pending events of a contract
func (h *handler) ListConfirmations(c *gin.Context) {
	var params ListConfirmationsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	contract, ok := h.resolveContract(c, params.Contract)
	if !ok {
		return
	}

	statuses, err := h.service.Find(c.Request.Context(), contract)
	if err != nil {
		respondInternalError(c, err, "Failed to get confirmations", zap.String("contract", contract))
		return
	}

	c.JSON(http.StatusOK, dto.ConfirmationsResponse{
		ContractAddress: contract,
		Confirmations:   statuses,
	})
}

// resolveContract maps the query value to a tracked contract, writing the error response when it cannot
func (h *handler) resolveContract(c *gin.Context, query string) (string, bool) {
	if query == "" {
		if len(h.contracts) == 1 {
			for _, contract := range h.contracts {
				return contract, true
			}
		}
		respondBadRequest(c, "Contract is required", "more than one contract is tracked")
		return "", false
	}

	if !common.IsHexAddress(query) {
		respondValidationError(c, "contract must be a hex address")
		return "", false
	}

	contract, ok := h.contracts[strings.ToLower(query)]
	if !ok {
		respondNotFound(c, "Contract is not tracked", query)
		return "", false
	}

	return contract, true
}

// ListContracts returns the tracked contracts in their configured order
func (h *handler) ListContracts(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ContractsResponse{Contracts: h.ordered})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	if err := h.pinger.Ping(c.Request.Context()); err != nil {
		respondUnavailable(c, err, "Database is unreachable")
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Service: serviceName,
	})
}
