// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package live is the broadcast hub: a push layer over a persistent
WebSocket connection to every connected viewer.

The event catalogue is stateChanged, statsUpdated, qnaSubmitted,
qnaHighlighted{id} and qnaRejected{id}. Events carry no other payload;
viewers re-fetch the relevant snapshot from the HTTP API. No ordering is
promised across distinct event types. Within a single mutation the event
is published only after the corresponding write committed.

Fan-out is fire-and-forget end to end: Notify drops when the hub queue is
full, and the hub drops per-client when a viewer's send buffer is full.
A write path can therefore never block on, or fail because of, a viewer.
*/
package live
