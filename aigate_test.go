package aigate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamvt/aigate/core"
	"github.com/lamvt/aigate/model"
)

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(func(o *Options) {
		o.Model = model.NewMock("test-model")
	})
	require.NoError(t, err)
	return svc
}

func TestNewDefaults(t *testing.T) {
	svc := newService(t)

	assert.True(t, svc.Registry().Frozen())
	assert.Greater(t, svc.Registry().Len(), 0)
	assert.NotNil(t, svc.Dispatcher())
	assert.NotNil(t, svc.Router())
	assert.NotNil(t, svc.Pipeline())
}

func TestChatStaticReply(t *testing.T) {
	svc := newService(t)

	reply, err := svc.Chat(context.Background(), "xin chào", nil)
	require.NoError(t, err)

	assert.Equal(t, ReplyTypeStatic, reply.Type)
	assert.Equal(t, "greeting", reply.Rule)
	assert.Contains(t, reply.Reply, "Xin chào")
	assert.Nil(t, reply.Response)
	assert.Nil(t, reply.Pipeline)
}

func TestChatAgentRoute(t *testing.T) {
	svc := newService(t)

	reply, err := svc.Chat(context.Background(), "tìm kiếm AI trong giáo dục", nil)
	require.NoError(t, err)

	assert.Equal(t, ReplyTypeAgent, reply.Type)
	assert.Equal(t, "web_search", reply.Rule)
	require.NotNil(t, reply.Response)
	assert.Equal(t, "web_search_agent", reply.Response.Agent)
	assert.Equal(t, "web_search", reply.Response.Task)
	assert.True(t, reply.Response.Response.Success())
	assert.GreaterOrEqual(t, reply.Response.ProcessingTime, 0.0)
}

func TestChatPipelineRoute(t *testing.T) {
	svc := newService(t)

	reply, err := svc.Chat(context.Background(), "phân tích chuyên sâu về giáo dục trực tuyến", nil)
	require.NoError(t, err)

	assert.Equal(t, ReplyTypePipeline, reply.Type)
	assert.Equal(t, "advanced", reply.Rule)
	require.NotNil(t, reply.Pipeline)
	assert.NotEmpty(t, reply.Pipeline.PipelineID)
	assert.Len(t, reply.Pipeline.Stages, 7)
}

func TestChatEmptyMessage(t *testing.T) {
	svc := newService(t)

	_, err := svc.Chat(context.Background(), "   ", nil)
	require.Error(t, err)

	var bad *core.BadRequestError
	assert.ErrorAs(t, err, &bad)
}
