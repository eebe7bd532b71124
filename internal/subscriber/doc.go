// Package subscriber owns the subscribers relation: schema, uniqueness,
// insert, delete and list. PgStore is the production implementation;
// MemoryStore mirrors its semantics for tests.
package subscriber
