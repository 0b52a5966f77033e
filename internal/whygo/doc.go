// Package whygo defines the WhyGO domain model as seen by the client: people,
// departments, the company → department → individual goal cascade, and the
// measurable outcomes attached to each goal.
//
// Every entity here is a read snapshot of data owned by the WhyGO API. The
// client never creates or mutates these values locally; new goals are built as
// drafts (see package draft) and submitted to the API.
//
// # Ladder-up references
//
// Department and individual goals reference their parents through
// [ParentRef], a tagged reference resolved once when the JSON is decoded.
// Rendering code switches on [ParentRef.Kind] instead of inspecting ID
// prefixes.
//
// # Measures
//
// Targets and actuals are optional numbers. [Number] distinguishes "not set"
// from zero and tolerates the loose encodings the API emits for milestone and
// boolean metrics.
package whygo
