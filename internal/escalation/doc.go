// Package escalation decides when a conversation should be offered to a
// human supervisor.
//
// # Rules
//
// A turn recommends escalation when any of these hold:
//
//   - the latest customer message contains an escalation keyword
//     ("manager" or "escalate" by default), matched case-insensitively
//     as a substring
//   - the conversation has accumulated more than MessageThreshold
//     non-system messages (10 by default)
//   - the turn ended in the apology fallback because the completion
//     backend failed
//
// # Advisory only
//
// The recommendation never changes conversation state. It surfaces as a
// flag on the conversation, and a human (or the frontend acting for one)
// decides whether to actually escalate.
//
// Keywords and the threshold can be overridden from the escalation
// section of the config file.
package escalation
