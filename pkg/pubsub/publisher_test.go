package pubsub

import (
	"context"
	"encoding/json"
	"testing"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"cloud.google.com/go/pubsub/v2/pstest"
	"github.com/angelmondragon/deliverydash-backend/pkg/config"
	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const testProject = "deliverydash-test"

func newFakeClient(t *testing.T, topic string) (*Client, *pstest.Server) {
	t.Helper()
	ctx := context.Background()

	srv := pstest.NewServer()
	t.Cleanup(func() { _ = srv.Close() })

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	psClient, err := pubsub.NewClient(ctx, testProject, option.WithGRPCConn(conn))
	require.NoError(t, err)
	t.Cleanup(func() { _ = psClient.Close() })

	c := newFromClient(psClient, testProject, config.PubSubConfig{OrdersTopic: topic})
	return c, srv
}

func TestPingReportsMissingTopic(t *testing.T) {
	c, _ := newFakeClient(t, "orders")
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestTopicPublisherPublishesJSONWithAttributes(t *testing.T) {
	ctx := context.Background()
	c, srv := newFakeClient(t, "orders")

	_, err := c.client.TopicAdminClient.CreateTopic(ctx, &pubsubpb.Topic{Name: c.topicResourceName("orders")})
	require.NoError(t, err)
	require.NoError(t, c.Ping(ctx))

	pub, err := NewTopicPublisher(c.OrdersPublisher())
	require.NoError(t, err)
	defer pub.Stop()

	payload := map[string]string{"order_id": "o-1", "status": "pending"}
	require.NoError(t, pub.Publish(ctx, enums.OrderEventCreated, "o-1", payload))

	msgs := srv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "order.created", msgs[0].Attributes["event_type"])
	assert.NotEmpty(t, msgs[0].Attributes["occurred_at"])

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(msgs[0].Data, &decoded))
	assert.Equal(t, payload, decoded)
}

func TestTopicResourceName(t *testing.T) {
	c := &Client{projectID: "p1"}
	assert.Equal(t, "projects/p1/topics/orders", c.topicResourceName(" orders "))
	assert.Equal(t, "projects/x/topics/y", c.topicResourceName("projects/x/topics/y"))
	assert.Equal(t, "", c.topicResourceName(""))
	assert.Equal(t, "", (&Client{}).topicResourceName("orders"))
}

func TestNewTopicPublisherRequiresHandle(t *testing.T) {
	_, err := NewTopicPublisher(nil)
	assert.Error(t, err)
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), enums.OrderEventCreated, "", nil))
}
