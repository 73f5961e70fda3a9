// Package notify delivers keyspace events (e.g. "set", "expire") emitted
// by the string engine. Delivery is fire-and-forget: the engine never
// waits on subscribers, so the async notifier pushes events through a
// lock-free multi-producer single-consumer queue and a dedicated
// dispatcher goroutine fans them out.
package notify
