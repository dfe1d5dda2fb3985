// Package services defines shared utilities consumed by the pipeline
// orchestrators and the external collaborator clients.
//
// Its main export is the error taxonomy: sentinel markers plus the Wrap
// helper that translate collaborator failures into consistent pipeline
// behaviour. Configuration and authentication errors abort an invocation;
// transient and generation errors are recorded against a single ledger
// item so the batch can continue; precondition errors signal an invalid
// state transition and leave the item unchanged.
package services
