// Package redis implements store.Store using Redis as the durable job
// broker. Each job is stored as a Redis Hash, and each queue keeps one
// Sorted Set per job state. Waiting sets are scored by enqueue time so
// dequeue order is FIFO; delayed sets are scored by the job's run-at
// time so due jobs can be promoted with a range scan.
//
// Usage:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	s := redisstore.New(client)
//	if err := s.Ping(ctx); err != nil { ... }
package redis
