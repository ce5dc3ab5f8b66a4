// Package storage is the dashboard's key/value persistence layer.
//
// A Store saves, loads and removes JSON documents by key. Four backends
// exist:
//
//	MemoryStore  process-local map, used by tests and as a last resort
//	SQLiteStore  the kv_store table of the local database
//	RemoteStore  {base}/storage/{key} over HTTP, falling back to a local Store
//	RedisStore   one Redis string per key
//
// Callers normally go through a Service, which encodes values as JSON and
// runs writes in the background:
//
//	svc := storage.NewService(store, log)
//	res := svc.Save(ctx, "userGlobalScenes", scenes) // returns immediately
//	if err := res.Wait(); err != nil { ... }           // optional
//
//	scenes := storage.Load(ctx, svc, "userGlobalScenes", []Scene{})
//
// Load never fails: a missing key, an unreachable backend or a document that
// does not decode all yield the default, and the cause is logged.
package storage
