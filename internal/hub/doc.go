// Package hub is the server half of lesson sync.
//
// A [Hub] owns the authoritative tree of one lesson, its version counter and
// its roster. All of that state is touched only from the hub's
// [workers.Loop]: every public method posts a task and waits for the result.
// Each websocket connection is served by a [Session] with one reader and one
// writer goroutine; the hub hands sessions encoded frames through a buffered
// queue and never blocks on a slow client.
//
// Every update is stamped with the next version, applied to the tree,
// appended to the change log and broadcast to every connected member. A
// member connecting with a non-zero cursor first receives the logged changes
// after that cursor.
package hub
