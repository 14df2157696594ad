package cache

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// SettingsChannel carries reload notices between API instances.
const SettingsChannel = "library:settings"

type Notifier struct {
	rdb     *redis.Client
	channel string
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb, channel: SettingsChannel}
}

func (n *Notifier) Publish(ctx context.Context, msg string) error {
	return n.rdb.Publish(ctx, n.channel, msg).Err()
}

// Subscribe calls fn for each notice until ctx is done.
func (n *Notifier) Subscribe(ctx context.Context, fn func(msg string)) error {
	sub := n.rdb.Subscribe(ctx, n.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				log.Printf("cache: %s subscription closed", n.channel)
				return nil
			}
			fn(m.Payload)
		}
	}
}
