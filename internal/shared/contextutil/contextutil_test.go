package contextutil_test

import (
	"context"
	"testing"

	"go-leave/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetadata(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-1")
	ctx = contextutil.WithEmployeeCode(ctx, "EMP001")

	md := contextutil.ExtractMetadata(ctx)
	assert.Equal(t, "rid-1", md.RequestID)
	assert.Equal(t, "EMP001", md.EmployeeCode)

	empty := contextutil.ExtractMetadata(context.Background())
	assert.Empty(t, empty.RequestID)
	assert.Empty(t, empty.EmployeeCode)
}

func TestGetLogger(t *testing.T) {
	fallback := zap.NewExample()
	assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))

	scoped := zap.NewExample().Named("scoped")
	ctx := contextutil.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, contextutil.GetLogger(ctx, fallback))
}
