package mq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher 把消息体投递到指定队列
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

type queuePublisher struct {
	conn  *amqp.Connection
	queue string
}

// NewQueuePublisher 创建基于 amqp 连接的队列投递器，队列声明为持久化
func NewQueuePublisher(conn *amqp.Connection, queue string) Publisher {
	return &queuePublisher{conn: conn, queue: queue}
}

func (p *queuePublisher) Publish(ctx context.Context, body []byte) error {
	// channel 不是并发安全的，每次投递单独开一个
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}
