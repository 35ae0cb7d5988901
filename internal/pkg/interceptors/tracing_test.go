package interceptors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/orders-service/internal/pkg/interceptors/constants"
)

func TestTraceServerInterceptor_PropagatesRequestID(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(constants.HeaderXRequestId, "req-42"))

	var seen string
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		seen, _ = ctx.Value(constants.ContextKeyRequestID).(string)
		return "ok", nil
	}

	resp, err := TraceServerInterceptor()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "req-42", seen)
}

func TestGetMetadataValue_Missing(t *testing.T) {
	assert.Empty(t, GetMetadataValue(context.Background(), constants.HeaderXRequestId))
}
