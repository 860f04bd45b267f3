package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dpetros/streamcache/internal/communication"
	grpccomm "github.com/dpetros/streamcache/internal/communication/grpc"
	httpcomm "github.com/dpetros/streamcache/internal/communication/http"
	"github.com/dpetros/streamcache/internal/config"
	"github.com/dpetros/streamcache/internal/export_service"
	"github.com/dpetros/streamcache/internal/gateway_service"
	"github.com/dpetros/streamcache/internal/interceptor_service"
	"github.com/dpetros/streamcache/internal/kv_service"
	"github.com/dpetros/streamcache/internal/log_service"
	"github.com/dpetros/streamcache/internal/server"
	"github.com/dpetros/streamcache/internal/stream_cache_service"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./streamcache.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ls := log_service.NewLocalDiscLogService(cfg.Log.Dir, cfg.NodeID, cfg.Log.MinLevel)

	var kv kv_service.KVService
	switch cfg.KV.Backend {
	case "etcd":
		etcdKV, err := kv_service.NewEtcdKVService(cfg.KV.EtcdEndpoints, cfg.KV.EtcdNamespace, ls)
		if err != nil {
			log.Fatalf("Failed to connect to etcd: %v", err)
		}
		defer etcdKV.Close()
		kv = etcdKV
	default:
		kv = kv_service.NewInMemoryKVService()
	}

	var comm communication.Communicator
	switch cfg.Communicator.Type {
	case "http":
		comm = httpcomm.NewHTTPCommunicator(cfg.ListenAddress, ls)
	default:
		comm = grpccomm.NewGRPCCommunicator(cfg.ListenAddress, ls)
	}

	cache := stream_cache_service.NewDefaultStreamCacheService(kv, ls, cfg.Cache.ChunkSize)
	is := interceptor_service.NewDefaultInterceptorService(ls)
	gs := gateway_service.NewCommGatewayService(comm, ls, cfg.Gateway.Address, cfg.NodeID)
	es := export_service.NewCSVExportService(kv, ls)

	srv := server.NewDefaultServer(comm, cache, is, gs, es, ls, cfg.NodeID)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting cache server %s on %s", cfg.NodeID, cfg.ListenAddress)
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	if err := srv.Stop(); err != nil {
		log.Printf("Error stopping server: %v", err)
	}
}
