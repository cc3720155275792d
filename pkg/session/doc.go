/*
Package session implements session management and persistence orchestration.

It serialises access to traversal states across goroutines and, with a
distributed locker, across replicas, in front of a long-term storage adapter.
*/
package session
