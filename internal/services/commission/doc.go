/*
Package commission implements the multi-level commission engine.

An order completion triggers one fan-out: the buyer's upline chain is
resolved up to the configured number of levels, each level is matched
against the active rule for (order type, level), and one commission row
per (order, level) is written together with the earner's wallet credit in
a single database transaction. A unique index on (order_id, level) plus a
prior-record check make re-processing an order a no-op.

Approval moves a PENDING commission's amount from the wallet's pending
bucket to balance and credits totalEarned exactly once. Cancellation
reverses whichever credit was applied; totalEarned is never reduced.
PAID and CANCELLED are terminal and immutable.
*/
package commission
