// Package preflight provides readiness checks for the filesystem paths and
// catalog files a generation run depends on.
//
// These checks run in two contexts:
//   - The run command calls RunAll before starting the append loop, so a
//     misconfigured run fails immediately instead of partway through.
//   - The CLI "cohortgen preflight" command prints the same results so an
//     operator can diagnose a host without touching the datasets.
package preflight
