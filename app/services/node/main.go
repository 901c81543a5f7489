package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	figure "github.com/common-nighthawk/go-figure"
	"go.uber.org/zap"

	"github.com/qcbit/powchain/app/services/node/handlers"
	"github.com/qcbit/powchain/foundation/blockchain/chain"
	"github.com/qcbit/powchain/foundation/blockchain/genesis"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/mempool"
	"github.com/qcbit/powchain/foundation/blockchain/miner"
	"github.com/qcbit/powchain/foundation/blockchain/network"
	"github.com/qcbit/powchain/foundation/blockchain/state"
	"github.com/qcbit/powchain/foundation/blockchain/txgen"
	"github.com/qcbit/powchain/foundation/logger"
)

// build is the git version of this program. It can be set at build time with -ldflags "-X main.build=...".
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
		}
		P2P struct {
			Host    string `conf:"default:127.0.0.1:6000"`
			Workers int    `conf:"default:4"`
			Connect string `conf:"default:,short:c"`
		}
		API struct {
			Host string `conf:"default:127.0.0.1:7000"`
		}
		Verbosity int `conf:"default:0,short:v"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "© 2024 WTFPL",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	powArt := figure.NewFigure("POWCHAIN", "", true)
	powArt.Print()

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
	}

	// =========================================================================
	// Core Construction

	// Shared structures in the package lock ordering: Blockchain -> OrphanBuffer
	// -> Mempool -> StatePerBlock.
	bc := chain.New()
	orphans := network.NewOrphanBuffer()
	mp := mempool.New()
	sp := state.NewPerBlock(genesis.ID(), state.GenesisState())

	transport, err := network.NewTCPTransport(cfg.P2P.Host, ev)
	if err != nil {
		return fmt.Errorf("unable to start p2p transport: %w", err)
	}
	go transport.Serve()
	log.Infow("startup", "status", "p2p transport listening", "host", transport.Addr())

	pool := network.NewPool(transport, bc, orphans, mp, sp, ev)
	go pool.Run(cfg.P2P.Workers)

	for _, peer := range splitPeers(cfg.P2P.Connect) {
		go connectWithRetry(transport, peer, ev)
	}

	minerEngine, minerHandle, minedBlocks := miner.New(bc, mp, ev)
	go minerEngine.Run()
	go miner.RunWorker(minedBlocks, bc, sp, func(ids []hash.Hash256) { broadcastBlockHashes(transport, ids) }, ev)

	txgenEngine, txgenHandle, generatedTxs := txgen.New(bc, sp, ev)
	go txgenEngine.Run()
	go txgen.RunWorker(generatedTxs, mp, func(ids []hash.Hash256) { broadcastTransactionHashes(transport, ids) }, ev)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	debugMux := handlers.DebugMux(build, log)
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Admin API Service

	log.Infow("startup", "status", "initializing V1 admin API support")

	adminMux := handlers.AdminMux(handlers.MuxConfig{
		Shutdown:      shutdown,
		Log:           log,
		Chain:         bc,
		StatePerBlock: sp,
		Miner:         minerHandle,
		TxGenerator:   txgenHandle,
		Transport:     transport,
	})

	api := http.Server{
		Addr:         cfg.API.Host,
		Handler:      adminMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "admin api router started", "host", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		minerHandle.Exit()
		txgenHandle.Exit()
		transport.Close()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		log.Infow("shutdown", "status", "shutdown admin API started")
		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop admin service gracefully: %w", err)
		}
	}

	return nil
}

// broadcastBlockHashes wraps ids in a NewBlockHashes advertisement and
// broadcasts it, bridging the miner's transport-agnostic BroadcastFunc to
// the concrete network package.
func broadcastBlockHashes(transport network.Transport, ids []hash.Hash256) {
	transport.Broadcast(network.NewBlockHashes{Hashes: ids})
}

// broadcastTransactionHashes does the same for the transaction generator.
func broadcastTransactionHashes(transport network.Transport, ids []hash.Hash256) {
	transport.Broadcast(network.NewTransactionHashes{Hashes: ids})
}

// splitPeers parses the comma-separated -c/--p2p-connect value into its
// individual peer addresses, ignoring empty entries.
func splitPeers(raw string) []string {
	if raw == "" {
		return nil
	}

	var peers []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			peers = append(peers, p)
		}
	}
	return peers
}

// connectWithRetry dials addr, retrying once per second until the first
// success, per the startup peer-connect behavior.
func connectWithRetry(transport *network.TCPTransport, addr string, log func(string, ...any)) {
	for {
		if err := transport.Connect(addr); err != nil {
			log("startup: connect %s: %s", addr, err)
			time.Sleep(time.Second)
			continue
		}
		log("startup: connected to peer %s", addr)
		return
	}
}
