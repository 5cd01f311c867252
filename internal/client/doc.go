// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line lesson client.
//
// It opens a synced session, prints the current line and the roster as they
// change, and lets the host move through the lesson with commands read from
// standard input.
package client
