package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации, с которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetIdentityEventQueues возвращает список очередей для событий пользователей.
func GetIdentityEventQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "identity.user.registered", RoutingKey: RoutingKeyUserRegistered},
		{QueueName: "identity.user.password_changed", RoutingKey: RoutingKeyPasswordChanged},
	}
}
