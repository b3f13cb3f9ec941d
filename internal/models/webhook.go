// Package models defines the core data structures for LeadBot.
//
// This file holds the inbound webhook envelope as delivered by the channel.
package models

// WebhookEvent is the top-level JSON envelope posted to the webhook
// endpoint. Object discriminates the event source; only "page" events are
// processed.
type WebhookEvent struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one delivery batch inside the envelope. Each entry carries at
// most one messaging event.
type Entry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

// MessagingEvent is a single inbound event: either a postback (button
// selection) or a free-text message.
type MessagingEvent struct {
	Sender    Principal `json:"sender"`
	Recipient Principal `json:"recipient"`
	Timestamp int64     `json:"timestamp"`
	Postback  *Postback `json:"postback,omitempty"`
	Message   *Message  `json:"message,omitempty"`
}

// Principal identifies a conversation party by its opaque channel id.
type Principal struct {
	ID string `json:"id"`
}

// Postback carries the payload token of a pressed button.
type Postback struct {
	Title   string `json:"title,omitempty"`
	Payload string `json:"payload"`
}

// Message carries the free text typed by the visitor.
type Message struct {
	MID  string `json:"mid,omitempty"`
	Text string `json:"text"`
}
