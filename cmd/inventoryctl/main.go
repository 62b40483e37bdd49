// Package main is inventoryctl, a read-only command line client of the inventory gRPC API.
//
//	inventoryctl get <id>
//	inventoryctl list
//
// Connection settings come from the grpcclient and resilience sections of config.yaml
// or INVENTORYCTL_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/abgdnv/inventory/internal/config"
	grpcImpl "github.com/abgdnv/inventory/internal/transport/grpc"
	grpcclient "github.com/abgdnv/inventory/pkg/client/grpc"
	"github.com/abgdnv/inventory/pkg/config/configloader"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

const appName = "inventoryctl"

var errUsage = errors.New("usage: inventoryctl get <id> | list")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs := flag.NewFlagSet(appName, flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "path to the yaml config file")
	_ = fs.Parse(os.Args[1:])

	cfg, err := configloader.LoadFrom[*config.ClientConfig](appName, *configFile, ".env")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := run(ctx, cfg, fs.Args(), os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run executes one command and prints the result as JSON to out.
func run(ctx context.Context, cfg *config.ClientConfig, args []string, out io.Writer, dialOpts ...grpc.DialOption) error {
	if len(args) == 0 {
		return errUsage
	}

	conn, err := grpcclient.NewConn(cfg.GrpcClient, cfg.Resilience, dialOpts...)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	client := grpcImpl.NewClient(conn)

	var result proto.Message
	switch args[0] {
	case "get":
		if len(args) != 2 {
			return errUsage
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}
		result, err = client.GetProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("get product %d: %w", id, err)
		}
	case "list":
		result, err = client.ListProducts(ctx)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
	default:
		return errUsage
	}

	b, err := protojson.MarshalOptions{Multiline: true}.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
