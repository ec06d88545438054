package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-confirmator/internal/adapter"
	"github.com/feral-file/ff-confirmator/internal/config"
	"github.com/feral-file/ff-confirmator/internal/logger"
	"github.com/feral-file/ff-confirmator/internal/providers/ethereum"
	"github.com/feral-file/ff-confirmator/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	txHashes   = flag.String("tx", "", "Comma separated transaction hashes whose contract logs are recorded as pending events")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadConfirmatorConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "event-ingester",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	if *txHashes == "" {
		logger.FatalCtx(ctx, "No transaction hashes given, use -tx")
	}
	if cfg.Ethereum.ABIPath == "" {
		logger.FatalCtx(ctx, "ethereum.abi_path is required to decode logs")
	}

	contractABI, err := os.ReadFile(cfg.Ethereum.ABIPath)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to read contract ABI", zap.Error(err), zap.String("path", cfg.Ethereum.ABIPath))
	}

	decoder, err := ethereum.NewEventDecoder(string(contractABI), ethereum.DecoderConfig{
		DefaultTargetConfirmation: cfg.Ethereum.DefaultTargetConfirmation,
		TargetConfirmations:       cfg.Ethereum.TargetConfirmations,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create event decoder", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	ingester := ethereum.NewLogIngester(decoder, store.NewPGStore(db))

	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum RPC", zap.Error(err), zap.String("rpc_url", cfg.Ethereum.RPCURL))
	}
	defer ethClient.Close()

	if err := ethereum.VerifyChain(ctx, ethClient, cfg.Ethereum.ChainID); err != nil {
		logger.FatalCtx(ctx, "Ethereum RPC does not serve the configured chain", zap.Error(err))
	}

	tracked := make(map[common.Address]struct{}, len(cfg.Confirmator.ContractAddresses))
	for _, address := range cfg.Confirmator.ContractAddresses {
		tracked[common.HexToAddress(address)] = struct{}{}
	}

	var logs []types.Log
	for _, raw := range strings.Split(*txHashes, ",") {
		txHash := common.HexToHash(strings.TrimSpace(raw))
		receipt, err := ethClient.TransactionReceipt(ctx, txHash)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to get transaction receipt", zap.Error(err), zap.String("tx_hash", txHash.Hex()))
		}
		for _, vLog := range receipt.Logs {
			if _, ok := tracked[vLog.Address]; ok {
				logs = append(logs, *vLog)
			}
		}
	}

	inserted, err := ingester.Ingest(ctx, logs)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to ingest logs", zap.Error(err))
	}

	logger.InfoCtx(ctx, "Ingestion finished",
		zap.Int("logs", len(logs)),
		zap.Int64("inserted", inserted))
}
