package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// SplitServiceName is the fully-qualified name of the SplitService.
const SplitServiceName = "warikan.v1.SplitService"

const (
	SplitServiceComputeEqualSplitProcedure      = "/warikan.v1.SplitService/ComputeEqualSplit"
	SplitServiceComputeRandomSplitProcedure     = "/warikan.v1.SplitService/ComputeRandomSplit"
	SplitServiceComputeRegisteredSplitProcedure = "/warikan.v1.SplitService/ComputeRegisteredSplit"
)

// SplitServiceHandler computes splits without keeping any state.
type SplitServiceHandler interface {
	ComputeEqualSplit(context.Context, *connect.Request[ComputeEqualSplitRequest]) (*connect.Response[SplitResponse], error)
	ComputeRandomSplit(context.Context, *connect.Request[ComputeRandomSplitRequest]) (*connect.Response[SplitResponse], error)
	ComputeRegisteredSplit(context.Context, *connect.Request[ComputeRegisteredSplitRequest]) (*connect.Response[SplitResponse], error)
}

// NewSplitServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithCodec()}, opts...)
	mux := http.NewServeMux()
	mux.Handle(SplitServiceComputeEqualSplitProcedure, connect.NewUnaryHandler(
		SplitServiceComputeEqualSplitProcedure, svc.ComputeEqualSplit, opts...))
	mux.Handle(SplitServiceComputeRandomSplitProcedure, connect.NewUnaryHandler(
		SplitServiceComputeRandomSplitProcedure, svc.ComputeRandomSplit, opts...))
	mux.Handle(SplitServiceComputeRegisteredSplitProcedure, connect.NewUnaryHandler(
		SplitServiceComputeRegisteredSplitProcedure, svc.ComputeRegisteredSplit, opts...))
	return "/" + SplitServiceName + "/", mux
}

// SplitServiceClient is a client for the SplitService.
type SplitServiceClient interface {
	ComputeEqualSplit(context.Context, *connect.Request[ComputeEqualSplitRequest]) (*connect.Response[SplitResponse], error)
	ComputeRandomSplit(context.Context, *connect.Request[ComputeRandomSplitRequest]) (*connect.Response[SplitResponse], error)
	ComputeRegisteredSplit(context.Context, *connect.Request[ComputeRegisteredSplitRequest]) (*connect.Response[SplitResponse], error)
}

// NewSplitServiceClient constructs a client for the SplitService
// served at baseURL (e.g. http://localhost:8080).
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithCodec()}, opts...)
	return &splitServiceClient{
		computeEqualSplit: connect.NewClient[ComputeEqualSplitRequest, SplitResponse](
			httpClient, baseURL+SplitServiceComputeEqualSplitProcedure, opts...),
		computeRandomSplit: connect.NewClient[ComputeRandomSplitRequest, SplitResponse](
			httpClient, baseURL+SplitServiceComputeRandomSplitProcedure, opts...),
		computeRegisteredSplit: connect.NewClient[ComputeRegisteredSplitRequest, SplitResponse](
			httpClient, baseURL+SplitServiceComputeRegisteredSplitProcedure, opts...),
	}
}

type splitServiceClient struct {
	computeEqualSplit      *connect.Client[ComputeEqualSplitRequest, SplitResponse]
	computeRandomSplit     *connect.Client[ComputeRandomSplitRequest, SplitResponse]
	computeRegisteredSplit *connect.Client[ComputeRegisteredSplitRequest, SplitResponse]
}

func (c *splitServiceClient) ComputeEqualSplit(ctx context.Context, req *connect.Request[ComputeEqualSplitRequest]) (*connect.Response[SplitResponse], error) {
	return c.computeEqualSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) ComputeRandomSplit(ctx context.Context, req *connect.Request[ComputeRandomSplitRequest]) (*connect.Response[SplitResponse], error) {
	return c.computeRandomSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) ComputeRegisteredSplit(ctx context.Context, req *connect.Request[ComputeRegisteredSplitRequest]) (*connect.Response[SplitResponse], error) {
	return c.computeRegisteredSplit.CallUnary(ctx, req)
}
