package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	cachelib "github.com/dpetros/streamcache/client/library"
	grpccomm "github.com/dpetros/streamcache/internal/communication/grpc"
	"github.com/dpetros/streamcache/internal/log_service"
)

const requestTimeout = 120 * time.Second

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: client [flags] <command>

Commands:
  store   -key <key> -file <path>   Upload a file under a cache key
  load    -key <key> [-out <path>]  Download cached data (stdout by default)
  remove  -key <key>                Remove a cache entry
  export  -path <path>              Export the metadata inventory as CSV

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	var serverAddr, key, file, out, exportPath, userID string
	flag.StringVar(&serverAddr, "server", "localhost:8080", "Server address")
	flag.StringVar(&key, "key", "", "Cache key")
	flag.StringVar(&file, "file", "", "File to upload (store)")
	flag.StringVar(&out, "out", "", "Output file (load); stdout when empty")
	flag.StringVar(&exportPath, "path", "", "CSV destination on the server (export)")
	flag.StringVar(&userID, "user", "", "User ID attached to requests")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	ls := log_service.NewLocalDiscLogService("./logs", "client", log_service.WarnLevel)
	comm := grpccomm.NewGRPCCommunicator(":0", ls)
	defer comm.Stop()

	client := cachelib.NewCacheClient(serverAddr, comm, userID)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch command {
	case "store":
		if key == "" || file == "" {
			log.Fatal("store requires -key and -file")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", file, err)
		}
		if err := client.Store(ctx, key, data); err != nil {
			log.Fatalf("Store failed: %v", err)
		}
		fmt.Printf("Stored %s under key %q\n", file, key)
	case "load":
		if key == "" {
			log.Fatal("load requires -key")
		}
		data, err := client.Load(ctx, key)
		if errors.Is(err, cachelib.ErrNotFound) {
			log.Fatalf("No cached data for key %q", key)
		}
		if err != nil {
			log.Fatalf("Load failed: %v", err)
		}
		if out == "" {
			os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", out, err)
		}
		fmt.Printf("Wrote %d bytes to %s\n", len(data), out)
	case "remove":
		if key == "" {
			log.Fatal("remove requires -key")
		}
		if err := client.Remove(ctx, key); err != nil {
			log.Fatalf("Remove failed: %v", err)
		}
		fmt.Printf("Removed key %q\n", key)
	case "export":
		if exportPath == "" {
			log.Fatal("export requires -path")
		}
		rows, err := client.Export(ctx, exportPath)
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		fmt.Printf("Exported %d entries to %s\n", rows, exportPath)
	default:
		usage()
		os.Exit(2)
	}
}
