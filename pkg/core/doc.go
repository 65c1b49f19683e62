// Package core defines the shared language of the LeapQA system.
//
// This package contains:
//   - Severity: ordered classification of how serious a violation is
//   - Violation: a single recorded instance of data failing a rule
//   - RuleInfo: rule-kind metadata for documentation/tooling
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
