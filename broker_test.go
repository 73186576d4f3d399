package enroute_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fxsml/enroute"
)

type fakePublisher struct {
	channel string
}

func (p *fakePublisher) Publish(ctx context.Context, event *enroute.Event) error {
	return nil
}

type fakeConsumer struct {
	channel string
	tag     string
}

func (c *fakeConsumer) StreamEvents(ctx context.Context) (<-chan enroute.Delivery, error) {
	out := make(chan enroute.Delivery)
	close(out)
	return out, nil
}

type fakeBroker struct {
	consumerErr error
}

func (b *fakeBroker) Publisher(ctx context.Context, options enroute.PublisherOptions) (*fakePublisher, error) {
	return &fakePublisher{channel: options.Channel}, nil
}

func (b *fakeBroker) Consumer(ctx context.Context, options enroute.ConsumerOptions) (*fakeConsumer, error) {
	if b.consumerErr != nil {
		return nil, b.consumerErr
	}
	return &fakeConsumer{channel: options.Channel, tag: options.ConsumerTag}, nil
}

func TestAsBroker_Forwards(t *testing.T) {
	t.Parallel()

	broker := enroute.AsBroker[*fakePublisher, *fakeConsumer](&fakeBroker{})

	publisher, err := broker.Publisher(context.Background(), enroute.PublisherOptions{Channel: "orders"})
	if err != nil {
		t.Fatalf("Publisher failed: %v", err)
	}
	fp, ok := publisher.(*fakePublisher)
	if !ok {
		t.Fatalf("Expected the concrete publisher through the adapter, got %T", publisher)
	}
	if fp.channel != "orders" {
		t.Errorf("Expected options forwarded unchanged, got channel %q", fp.channel)
	}

	consumer, err := broker.Consumer(context.Background(), enroute.ConsumerOptions{
		Channel:     "orders",
		ConsumerTag: "billing",
	})
	if err != nil {
		t.Fatalf("Consumer failed: %v", err)
	}
	fc, ok := consumer.(*fakeConsumer)
	if !ok {
		t.Fatalf("Expected the concrete consumer through the adapter, got %T", consumer)
	}
	if fc.channel != "orders" || fc.tag != "billing" {
		t.Errorf("Expected options forwarded unchanged, got %q/%q", fc.channel, fc.tag)
	}
}

func TestAsBroker_PropagatesErrors(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("no consumer for you")
	broker := enroute.AsBroker[*fakePublisher, *fakeConsumer](&fakeBroker{consumerErr: wantErr})

	_, err := broker.Consumer(context.Background(), enroute.ConsumerOptions{Channel: "orders"})
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected the backend error unchanged, got %v", err)
	}
}

type fakeBrokerBuilder struct {
	buildErr error
}

func (b *fakeBrokerBuilder) Build(ctx context.Context) (*fakeBroker, error) {
	if b.buildErr != nil {
		return nil, b.buildErr
	}
	return &fakeBroker{}, nil
}

func TestAsBrokerBuilder(t *testing.T) {
	t.Parallel()

	builder := enroute.AsBrokerBuilder[*fakePublisher, *fakeConsumer, *fakeBroker](&fakeBrokerBuilder{})

	broker, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	publisher, err := broker.Publisher(context.Background(), enroute.PublisherOptions{Channel: "orders"})
	if err != nil {
		t.Fatalf("Publisher failed: %v", err)
	}
	if _, ok := publisher.(*fakePublisher); !ok {
		t.Errorf("Expected the concrete publisher through the adapter, got %T", publisher)
	}
}

func TestAsBrokerBuilder_PropagatesErrors(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("bad config")
	builder := enroute.AsBrokerBuilder[*fakePublisher, *fakeConsumer, *fakeBroker](&fakeBrokerBuilder{buildErr: wantErr})

	_, err := builder.Build(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected the builder error unchanged, got %v", err)
	}
}

func TestPair(t *testing.T) {
	t.Parallel()

	broker := enroute.AsBroker[*fakePublisher, *fakeConsumer](&fakeBroker{})
	publisher, consumer, err := enroute.Pair(context.Background(), broker,
		enroute.PublisherOptions{Channel: "orders"},
		enroute.ConsumerOptions{Channel: "orders", ConsumerTag: "billing"},
	)
	if err != nil {
		t.Fatalf("Pair failed: %v", err)
	}
	if publisher == nil || consumer == nil {
		t.Fatal("Expected both capabilities")
	}
}

func TestPair_ConsumerError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	broker := enroute.AsBroker[*fakePublisher, *fakeConsumer](&fakeBroker{consumerErr: wantErr})

	_, _, err := enroute.Pair(context.Background(), broker,
		enroute.PublisherOptions{Channel: "orders"},
		enroute.ConsumerOptions{Channel: "orders", ConsumerTag: "billing"},
	)
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected consumer error propagated, got %v", err)
	}
}
