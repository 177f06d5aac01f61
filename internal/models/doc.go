// Package models defines the core domain models for LitePay.
//
// # Persisted Models
//
//   - User: a registered account; members of groups, payers of expenses
//   - Group: a set of users who share expenses
//   - Expense: a shared cost with a payer and per-member shares
//   - Invitation: a pending request to join a group
//   - TimelineEvent: an activity-feed entry
//
// # Derived Models
//
// The finance package produces summary values that are computed fresh per
// request and never stored:
//
//   - BalanceEntry: one counterparty's net position towards the viewer
//   - PeriodBucket / PeriodSeries: calendar-aligned spend accumulators
//   - FinancialSummary: the complete summary response body
//
// # Design Principles
//
// 1. Relationships use ID strings, not pointers, to avoid circular references
// 2. Monetary amounts are decimal.Decimal throughout; binary floats are never
// used for currency
// 3. Timestamps are Unix seconds (int64)
package models
