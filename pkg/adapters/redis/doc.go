// Package redis persists stanza sessions in Redis and coordinates replicas
// with a Redis-backed distributed lock.
package redis
