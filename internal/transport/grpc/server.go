// Package grpc provides a read-only gRPC view of the inventory.
package grpc

import (
	"context"
	"errors"
	"log/slog"

	inverrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/internal/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ProductReader is the part of the product service exposed over gRPC.
type ProductReader interface {
	FindByID(ctx context.Context, id int64) (*service.ProductDto, error)
	FindAll(ctx context.Context) ([]service.ProductDto, error)
}

type Server struct {
	service ProductReader
	logger  *slog.Logger
}

var _ InventoryServer = (*Server)(nil)

func NewServer(service ProductReader, logger *slog.Logger) *Server {
	return &Server{service: service, logger: logger.With("component", "grpc")}
}

func (s *Server) GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	id := req.GetValue()
	found, err := s.service.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, inverrors.ErrProductNotFound) {
			return nil, status.Errorf(codes.NotFound, "Product not found with id: %d", id)
		}
		s.logger.ErrorContext(ctx, "service.FindByID failed", "ID", id, "error", err)
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return toStruct(found)
}

func (s *Server) ListProducts(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	found, err := s.service.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "service.FindAll failed", "error", err)
		return nil, status.Error(codes.Internal, "internal server error")
	}
	values := make([]*structpb.Value, 0, len(found))
	for i := range found {
		st, err := toStruct(&found[i])
		if err != nil {
			return nil, err
		}
		values = append(values, structpb.NewStructValue(st))
	}
	return &structpb.ListValue{Values: values}, nil
}

// toStruct mirrors the REST JSON shape. The price is a string to keep its exact decimal value.
func toStruct(p *service.ProductDto) (*structpb.Struct, error) {
	fields := map[string]any{
		"id":            p.ID,
		"name":          p.Name,
		"description":   nil,
		"price":         p.Price.String(),
		"stockQuantity": p.StockQuantity,
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode product: %v", err)
	}
	return st, nil
}
