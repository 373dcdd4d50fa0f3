/*
Package encoder translates a discrete Bayesian network into a DIMACS CNF
formula whose satisfying structure encodes the joint distribution of the
network, in the weighted-model-counting style consumed by knowledge
compilers targeting d-DNNF circuit variants.

Every (variable, state) pair of the network becomes an indicator variable of
the formula. For each non-leaf variable (or every variable, depending on the
target circuit type), hard clauses state that exactly one of its indicators
is true. Each row of each conditional probability table then becomes an
implication clause whose body is the conjunction of the row's indicator
literals and whose head is a fresh parameter variable carrying the row's
probability, written as a "c" comment line above the clause.

Two optional optimizations reduce the formula. With determinism enabled,
rows of probability 1 are dropped entirely and rows of probability 0 become
hard clauses, terminated according to the configured selector-variable
strategy. With context-specific independence enabled, scope variables whose
value provably does not affect a row's probability are removed from that
row's clause, and rows that collapse onto an already emitted clause are
skipped.

The output is produced in two phases: the clause body is streamed to a
staging file while variables and clauses are counted, then the final
artifact is written with the comment prolog, the (variable, state) → index
legend and the "p cnf" header followed by the staged body.
*/
package encoder
