// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package replica keeps a local mirror of the server-held lesson tree.
//
// A [Replica] owns a path-addressed [Tree], applies versioned updates pushed
// over a persistent websocket, and notifies watchers registered on path
// prefixes. Notifications are coalesced: every path written while a task runs
// on the replica's scheduler is delivered once, after that task returns and
// before the next inbound frame is processed.
//
// Writes issued with [Replica.Set] go straight to the server and become
// visible locally only once the server echoes them back as an update frame.
//
// Prefix matching is a plain string prefix test, not a path-segment test: a
// watcher on "users" is also told about "userscount". Pick prefixes with a
// trailing slash when that matters.
package replica
