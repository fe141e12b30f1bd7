// Package orchestration coordinates concurrent execution of extended Euclidean
// traces for a batch of input pairs and aggregates their outcomes. It decouples
// the computation from presentation via the TracePresenter and ErrorHandler
// interfaces.
package orchestration
