// Package hookcache provides a concurrent in-memory cache for chat
// platform webhooks, plus a helper that executes them from many
// goroutines without duplicate lookups.
//
// hookcache is a library — not a service. It performs no network I/O of
// its own: fetching webhook metadata and posting messages are delegated
// to caller-supplied Fetcher and Sender implementations (the client
// subpackage provides REST-backed ones). The cache stays consistent by
// absorbing the platform's gateway events and is rebuilt from live
// queries after a restart; nothing is persisted.
//
// Key properties:
//   - Sharded locking: reads never contend on a global lock and never
//     block on another webhook's in-flight fetch
//   - Coalesced fills: concurrent misses for one webhook share a single
//     fetch and its outcome
//   - Merge-semantics updates with explicit set/clear/leave-alone fields
//   - No internal retries — every failure surfaces to the caller typed
//
// Quick start:
//
//	api := client.New(client.Config{Token: botToken})
//
//	svc, err := hookcache.New(
//	    hookcache.WithClient(api),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Feed gateway events to keep the cache current.
//	svc.Apply(webhook.Deleted{ID: whID})
//
//	// Execute from any goroutine; the lookup is cached and coalesced.
//	msg, err := svc.Execute(ctx, whID, "", hookcache.Payload{
//	    Content: "deploy finished",
//	})
package hookcache
