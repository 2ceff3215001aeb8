package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIdentityEventQueues(t *testing.T) {
	queues := GetIdentityEventQueues()

	require.NotEmpty(t, queues, "queues list should not be empty")

	// Каждому ключу маршрутизации соответствует своя очередь
	first := queues[0]
	assert.Equal(t, "identity.user.registered", first.QueueName)
	assert.Equal(t, RoutingKeyUserRegistered, first.RoutingKey)

	second := queues[1]
	assert.Equal(t, "identity.user.password_changed", second.QueueName)
	assert.Equal(t, RoutingKeyPasswordChanged, second.RoutingKey)

	// Проверка уникальности QueueName
	seen := map[string]bool{}
	for _, q := range queues {
		assert.Falsef(t, seen[q.QueueName], "duplicate queue name: %s", q.QueueName)
		seen[q.QueueName] = true
	}
}
