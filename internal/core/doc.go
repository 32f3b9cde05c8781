// Package core provides the shipment report pipeline.
//
// This package holds all domain logic independent of any output format or
// transport. The CLI, the web server and the renderers only see its results,
// so every report format shows the same numbers.
//
// # Pipeline
//
// A run flows strictly left to right:
//
//	Load -> Exclude -> ComputeMetrics -> Aggregate -> BuildReport
//
//  1. [Load] parses the daily export into a [ShipmentSet]. Rows with an
//     unreadable Created Date or no customer are dropped and counted in
//     ParseDropped; anything wrong with the file itself is a [*LoadError].
//  2. [Exclude] removes records matched by a [Predicate], normally
//     [QuoteTagRule], keeping input order.
//  3. [ComputeMetrics] finds the as-of date (the latest Created Date) and the
//     summary figures. An empty working set is an [*EmptyDatasetError].
//  4. [Aggregate] builds the customer by tag pivots, the tag distribution and
//     the top vehicles.
//  5. [BuildReport] assembles the [ReportModel] renderers consume.
//
// [Pipeline.Run] chains these steps and adds the optional secondary table
// from the "EOD Update-2" export via [LoadSecondary], which never fails a
// run.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - LOAD001-LOAD004: Main export missing, unreadable, missing a column, empty
//   - DATA001: Nothing left after the tag rule
//   - SEC001: Secondary table skipped
//   - INP001, CFG001: Input discovery and configuration problems
//   - OUT001-OUT002: Unknown format and write failures
package core
