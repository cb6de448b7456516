package messaging

type consumeOptions struct {
	// concurrency is how many handler goroutines run in parallel.
	concurrency int

	// autoAck makes the driver ack/nack from the handler's return value.
	autoAck bool

	// group is the Kafka consumer group.
	group string

	// channel is the NSQ channel.
	channel string

	// queueGroup is the NATS queue group.
	queueGroup string

	// subscription is the Google Pub/Sub subscription.
	subscription string

	// maxInFlight caps unacknowledged messages.
	maxInFlight int
}

// ConsumeOption configures one Consume call. Each broker reads the options
// that apply to it and ignores the rest, so callers can set all of them and
// stay driver-agnostic.
type ConsumeOption func(*consumeOptions)

func newConsumeOptions(opts ...ConsumeOption) consumeOptions {
	var co consumeOptions
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&co)
	}
	return co
}

// WithConcurrency sets how many handler goroutines process messages in parallel.
func WithConcurrency(n int) ConsumeOption {
	return func(o *consumeOptions) { o.concurrency = n }
}

// WithGroup sets the consumer group name (Kafka).
func WithGroup(group string) ConsumeOption {
	return func(o *consumeOptions) { o.group = group }
}

// WithChannel sets the channel name (NSQ).
func WithChannel(channel string) ConsumeOption {
	return func(o *consumeOptions) { o.channel = channel }
}

// WithQueueGroup sets the queue group name (NATS).
func WithQueueGroup(queueGroup string) ConsumeOption {
	return func(o *consumeOptions) { o.queueGroup = queueGroup }
}

// WithSubscription sets the subscription name (Google Pub/Sub).
func WithSubscription(subscription string) ConsumeOption {
	return func(o *consumeOptions) { o.subscription = subscription }
}

// WithAutoAck makes the driver ack on a nil handler return and nack otherwise.
func WithAutoAck(autoAck bool) ConsumeOption {
	return func(o *consumeOptions) { o.autoAck = autoAck }
}

// WithMaxInFlight limits the number of unacknowledged messages in flight.
func WithMaxInFlight(maxInFlight int) ConsumeOption {
	return func(o *consumeOptions) { o.maxInFlight = maxInFlight }
}
