// Package pb holds the gRPC wire types for the exchange service. There is
// no protoc invocation available in this environment, so these are
// hand-written plain Go structs rather than protoc-gen-go output; see
// internal/api/grpc's JSON codec for how they go over the wire without a
// compiled FileDescriptor.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type Order struct {
	Id        uint64                 `json:"id"`
	ClientId  string                 `json:"client_id"`
	Symbol    string                 `json:"symbol"`
	Side      string                 `json:"side"`
	Type      string                 `json:"type"`
	Price     string                 `json:"price"`
	Quantity  string                 `json:"quantity"`
	Remaining string                 `json:"remaining"`
	Status    string                 `json:"status"`
	CreatedAt *timestamppb.Timestamp `json:"created_at,omitempty"`
}

type Trade struct {
	Id        string                 `json:"id"`
	BuyOrder  uint64                 `json:"buy_order"`
	SellOrder uint64                 `json:"sell_order"`
	Price     string                 `json:"price"`
	Quantity  string                 `json:"quantity"`
	Timestamp *timestamppb.Timestamp `json:"timestamp,omitempty"`
}

type SubmitOrderRequest struct {
	ClientId string `json:"client_id"`
	Symbol   string `json:"symbol"`
	Side     string `json:"side"`
	Type     string `json:"type"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

type SubmitOrderResponse struct {
	OrderId   uint64   `json:"order_id"`
	Trades    []*Trade `json:"trades"`
	Remaining string   `json:"remaining"`
}

type ModifyOrderRequest struct {
	OrderId     uint64 `json:"order_id"`
	ClientId    string `json:"client_id"`
	NewPrice    string `json:"new_price"`
	NewQuantity string `json:"new_quantity"`
}

type ModifyOrderResponse struct {
	OrderId  uint64 `json:"order_id"`
	Modified bool   `json:"modified"`
	Message  string `json:"message,omitempty"`
}

type CancelOrderRequest struct {
	OrderId  uint64 `json:"order_id"`
	ClientId string `json:"client_id"`
}

type CancelOrderResponse struct {
	OrderId   uint64 `json:"order_id"`
	Cancelled bool   `json:"cancelled"`
	Message   string `json:"message,omitempty"`
}

type GetOrderRequest struct {
	OrderId uint64 `json:"order_id"`
}

type GetOrderResponse struct {
	Order *Order `json:"order"`
}

type GetTradesRequest struct {
	OrderId uint64 `json:"order_id"`
}

type GetTradesResponse struct {
	Trades []*Trade `json:"trades"`
}

type GetOrderbookRequest struct {
	Symbol string `json:"symbol"`
}

type GetOrderbookResponse struct {
	Bids      []*Order               `json:"bids"`
	Asks      []*Order               `json:"asks"`
	Timestamp *timestamppb.Timestamp `json:"timestamp,omitempty"`
}

type SnapshotRequest struct {
	Symbol string `json:"symbol"`
}

type SnapshotResponse struct {
	SnapshotId string `json:"snapshot_id"`
	Message    string `json:"message,omitempty"`
}

type RestoreRequest struct {
	SnapshotId string `json:"snapshot_id"`
}

type RestoreResponse struct {
	Ok      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// ExchangeServer is the service surface handlers implement; hand-written to
// mirror what protoc-gen-go-grpc would emit for a .proto carrying the same
// RPCs.
type ExchangeServer interface {
	SubmitOrder(context.Context, *SubmitOrderRequest) (*SubmitOrderResponse, error)
	ModifyOrder(context.Context, *ModifyOrderRequest) (*ModifyOrderResponse, error)
	CancelOrder(context.Context, *CancelOrderRequest) (*CancelOrderResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*GetOrderResponse, error)
	GetTradesForOrder(context.Context, *GetTradesRequest) (*GetTradesResponse, error)
	GetOrderbook(context.Context, *GetOrderbookRequest) (*GetOrderbookResponse, error)
	SnapshotOrderbook(context.Context, *SnapshotRequest) (*SnapshotResponse, error)
	RestoreOrderbook(context.Context, *RestoreRequest) (*RestoreResponse, error)
}

// UnimplementedExchangeServer gives later RPC additions the same
// forward-compatible embedding protoc-gen-go-grpc generates.
type UnimplementedExchangeServer struct{}

func (UnimplementedExchangeServer) SubmitOrder(context.Context, *SubmitOrderRequest) (*SubmitOrderResponse, error) {
	return nil, errUnimplemented
}
func (UnimplementedExchangeServer) ModifyOrder(context.Context, *ModifyOrderRequest) (*ModifyOrderResponse, error) {
	return nil, errUnimplemented
}
func (UnimplementedExchangeServer) CancelOrder(context.Context, *CancelOrderRequest) (*CancelOrderResponse, error) {
	return nil, errUnimplemented
}
func (UnimplementedExchangeServer) GetOrder(context.Context, *GetOrderRequest) (*GetOrderResponse, error) {
	return nil, errUnimplemented
}
func (UnimplementedExchangeServer) GetTradesForOrder(context.Context, *GetTradesRequest) (*GetTradesResponse, error) {
	return nil, errUnimplemented
}
func (UnimplementedExchangeServer) GetOrderbook(context.Context, *GetOrderbookRequest) (*GetOrderbookResponse, error) {
	return nil, errUnimplemented
}
func (UnimplementedExchangeServer) SnapshotOrderbook(context.Context, *SnapshotRequest) (*SnapshotResponse, error) {
	return nil, errUnimplemented
}
func (UnimplementedExchangeServer) RestoreOrderbook(context.Context, *RestoreRequest) (*RestoreResponse, error) {
	return nil, errUnimplemented
}

var errUnimplemented = grpcUnimplemented("method not implemented")

type grpcUnimplemented string

func (e grpcUnimplemented) Error() string { return string(e) }

func RegisterExchangeServer(s grpc.ServiceRegistrar, srv ExchangeServer) {
	s.RegisterService(&Exchange_ServiceDesc, srv)
}

var Exchange_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "exchange.Exchange",
	HandlerType: (*ExchangeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitOrder", Handler: submitOrderHandler},
		{MethodName: "ModifyOrder", Handler: modifyOrderHandler},
		{MethodName: "CancelOrder", Handler: cancelOrderHandler},
		{MethodName: "GetOrder", Handler: getOrderHandler},
		{MethodName: "GetTradesForOrder", Handler: getTradesForOrderHandler},
		{MethodName: "GetOrderbook", Handler: getOrderbookHandler},
		{MethodName: "SnapshotOrderbook", Handler: snapshotOrderbookHandler},
		{MethodName: "RestoreOrderbook", Handler: restoreOrderbookHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/api/pb/exchange.go",
}

func submitOrderHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SubmitOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExchangeServer).SubmitOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/exchange.Exchange/SubmitOrder"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExchangeServer).SubmitOrder(ctx, req.(*SubmitOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func modifyOrderHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ModifyOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExchangeServer).ModifyOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/exchange.Exchange/ModifyOrder"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExchangeServer).ModifyOrder(ctx, req.(*ModifyOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func cancelOrderHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CancelOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExchangeServer).CancelOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/exchange.Exchange/CancelOrder"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExchangeServer).CancelOrder(ctx, req.(*CancelOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getOrderHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExchangeServer).GetOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/exchange.Exchange/GetOrder"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExchangeServer).GetOrder(ctx, req.(*GetOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getTradesForOrderHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetTradesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExchangeServer).GetTradesForOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/exchange.Exchange/GetTradesForOrder"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExchangeServer).GetTradesForOrder(ctx, req.(*GetTradesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getOrderbookHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetOrderbookRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExchangeServer).GetOrderbook(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/exchange.Exchange/GetOrderbook"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExchangeServer).GetOrderbook(ctx, req.(*GetOrderbookRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func snapshotOrderbookHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SnapshotRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExchangeServer).SnapshotOrderbook(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/exchange.Exchange/SnapshotOrderbook"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExchangeServer).SnapshotOrderbook(ctx, req.(*SnapshotRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func restoreOrderbookHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RestoreRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExchangeServer).RestoreOrderbook(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/exchange.Exchange/RestoreOrderbook"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExchangeServer).RestoreOrderbook(ctx, req.(*RestoreRequest))
	}
	return interceptor(ctx, in, info, handler)
}
