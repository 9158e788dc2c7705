// Package sweep runs staged computations connected by channels: a source
// feeding work items, any number of transforming stages, and a sink
// collecting results. Stages may run several workers; the sweep stops on
// the first error and reports it wrapped with the stage name.
//
// The flux and momentum sweeps of this module are embarrassingly
// parallel, so the package stays deliberately small: no fan-out/fan-in
// topology, just a linear chain with per-stage concurrency and optional
// per-stage timing used to suggest worker counts.
package sweep
