// Package frame implements the core value types of timsgo: acquisition
// frames, per-scan mass spectra, resolution-reduced sparse vectors and
// retention-time slices of an ion-mobility mass-spectrometry experiment.
//
// All types are immutable values with structural-copy semantics. Every
// operation (filter, bin, fold, merge, vectorize) returns a new value and
// never mutates its operands, so logically distinct values may be processed
// concurrently without locking. Combination is an explicit Merge method with
// a documented identity-matching policy rather than an arithmetic operator,
// so an identity mismatch surfaces as an error instead of being hidden by
// operator sugar.
package frame
