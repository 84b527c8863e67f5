// Package payment holds the Payment aggregate used for reconciliation: payment
// attempts for an order, their method and settlement status, and the manual review
// marker set when a callback disagrees with the order.
package payment
