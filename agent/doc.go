// Package agent contains the concrete agent implementations registered by
// the gateway and the declarative catalog that constructs them.
//
// The package covers two concerns:
//
//  1. Identity plumbing (BaseAgent): immutable name, display name,
//     description and capability tags fixed at construction.
//  2. The model-backed worker (ModelAgent): formats a prompt from a
//     template plus the dispatched task/data and forwards it to the text
//     generation backend exactly once.
//
// Agents are stateless across Process calls. The catalog is the single
// owner of agent construction; nothing else in the service builds agents.
package agent
