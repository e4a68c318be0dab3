package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olyamironova/exchange-engine/internal/adapter/in_memory"
	pb "github.com/olyamironova/exchange-engine/internal/api/pb"
	"github.com/olyamironova/exchange-engine/internal/core"
)

func newTestGRPCServer() *GRPCServer {
	repo := in_memory.NewMemoryRepo()
	cache := in_memory.NewCache()
	eng := core.NewEngine(repo, cache, nil)
	return NewGRPCServer(eng)
}

func TestGRPCSubmitOrderRestsWhenNonCrossing(t *testing.T) {
	s := newTestGRPCServer()
	ctx := context.Background()

	resp, err := s.SubmitOrder(ctx, &pb.SubmitOrderRequest{
		ClientId: "alice", Symbol: "BTC-USD", Side: "BUY", Type: "LIMIT",
		Price: "100.00", Quantity: "10",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.OrderId)
	assert.Empty(t, resp.Trades)
	assert.Equal(t, "10", resp.Remaining)
}

func TestGRPCSubmitOrderRejectsBadSide(t *testing.T) {
	s := newTestGRPCServer()
	_, err := s.SubmitOrder(context.Background(), &pb.SubmitOrderRequest{
		ClientId: "alice", Symbol: "BTC-USD", Side: "SIDEWAYS", Type: "LIMIT",
		Price: "100", Quantity: "10",
	})
	assert.Error(t, err)
}

func TestGRPCSubmitOrderMatchesCrossingLimit(t *testing.T) {
	s := newTestGRPCServer()
	ctx := context.Background()

	_, err := s.SubmitOrder(ctx, &pb.SubmitOrderRequest{
		ClientId: "a", Symbol: "BTC-USD", Side: "SELL", Type: "LIMIT", Price: "100", Quantity: "10",
	})
	require.NoError(t, err)

	resp, err := s.SubmitOrder(ctx, &pb.SubmitOrderRequest{
		ClientId: "b", Symbol: "BTC-USD", Side: "BUY", Type: "LIMIT", Price: "100", Quantity: "10",
	})
	require.NoError(t, err)
	require.Len(t, resp.Trades, 1)
	assert.Equal(t, "100", resp.Trades[0].Price)
}

func TestGRPCCancelOrder(t *testing.T) {
	s := newTestGRPCServer()
	ctx := context.Background()

	sub, err := s.SubmitOrder(ctx, &pb.SubmitOrderRequest{
		ClientId: "alice", Symbol: "BTC-USD", Side: "BUY", Type: "LIMIT", Price: "100", Quantity: "10",
	})
	require.NoError(t, err)

	resp, err := s.CancelOrder(ctx, &pb.CancelOrderRequest{OrderId: sub.OrderId, ClientId: "alice"})
	require.NoError(t, err)
	assert.True(t, resp.Cancelled)
}

func TestGRPCGetOrderNotFound(t *testing.T) {
	s := newTestGRPCServer()
	_, err := s.GetOrder(context.Background(), &pb.GetOrderRequest{OrderId: 9999})
	assert.Error(t, err)
}

func TestGRPCSnapshotAndRestore(t *testing.T) {
	s := newTestGRPCServer()
	ctx := context.Background()

	_, err := s.SubmitOrder(ctx, &pb.SubmitOrderRequest{
		ClientId: "alice", Symbol: "BTC-USD", Side: "BUY", Type: "LIMIT", Price: "100", Quantity: "10",
	})
	require.NoError(t, err)

	snap, err := s.SnapshotOrderbook(ctx, &pb.SnapshotRequest{Symbol: "BTC-USD"})
	require.NoError(t, err)
	require.NotEmpty(t, snap.SnapshotId)

	restore, err := s.RestoreOrderbook(ctx, &pb.RestoreRequest{SnapshotId: snap.SnapshotId})
	require.NoError(t, err)
	assert.True(t, restore.Ok)
}

func TestValidateOrderRejectsBadType(t *testing.T) {
	err := ValidateOrder(&pb.SubmitOrderRequest{Side: "BUY", Type: "STOP"})
	assert.Error(t, err)
}
