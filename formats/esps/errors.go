// SPDX-License-Identifier: EPL-2.0

package esps

import "errors"

var (
	ErrNotEspsFile = errors.New("not an ESPS sampled-data file")
	ErrNoSamples   = errors.New("ESPS header has no samples record")
	ErrNoDatum     = errors.New("ESPS header declares no sample type")
	ErrBadParam    = errors.New("malformed ESPS parameter block")
)
