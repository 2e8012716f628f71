// Package preflight provides readiness checks for the filesystem paths
// and input files a pseudonymization run depends on.
//
// These checks run in two contexts:
//   - The batch runner calls RunAll before touching any dataset. If any
//     check fails, the run aborts before half the input is processed.
//   - The CLI "pseudonym validate" command uses individual check
//     functions to display what is wrong with a configuration.
package preflight
