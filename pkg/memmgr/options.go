// pkg/memmgr/options.go
package memmgr

import env "github.com/xyproto/env/v2"

// strictIntegrityEnvVar names the environment variable that sets the
// integrity auditor's (integrity.go) default when Options.StrictIntegrity
// is nil; when it is unset the auditor is off. It lets deployments turn
// on the extra invariant checking without recompiling. Mirrors how the teacher's checksum machinery
// (pkg/pager/corruption.go's ChecksumEnabled) is a single flag, but
// sourced from the environment instead of hard-coded off.
const strictIntegrityEnvVar = "VMA_STRICT"

func resolveStrict(opts Options) bool {
	if opts.StrictIntegrity != nil {
		return *opts.StrictIntegrity
	}
	return env.BoolOr(strictIntegrityEnvVar, false)
}
