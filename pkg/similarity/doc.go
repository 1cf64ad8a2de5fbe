// Package similarity answers "how related are these two words?" on top of a
// lexical knowledge source.
//
// The contract is [Oracle]: a score in [0,1] or unknown. [Adapter]
// implements it over a [lexicon.Source] by taking the maximum path
// similarity across the cross product of both terms' senses. A term with no
// senses makes the answer unknown, which callers treat as "not related",
// never as an error.
//
// Sense sets depend only on the term, so the adapter resolves each term at
// most once per adapter lifetime: an in-process memo catches repeats inside
// the O(n²) pair loop, singleflight collapses concurrent lookups of the same
// term, and an optional [cache.Cache] shares resolved senses across runs.
//
// Failures are different from unknowns. A term with no senses, including a
// malformed one such as an over-long URL, scores Unknown. An unreachable
// lexicon produces an ORACLE_FAILURE error that callers must propagate.
package similarity
