package vpnapi

import (
	"encoding/json"
	"fmt"
)

// IPType classifies the address a check request came from.
type IPType string

// IP types. IPTypeOther is never sent by the server; it stands in for values
// this client does not know yet.
const (
	IPTypeMullvad IPType = "Mullvad"
	IPTypeUnknown IPType = "Unknown"
	IPTypeOther   IPType = "Other"
)

// UnmarshalJSON maps unrecognised values to IPTypeOther.
func (t *IPType) UnmarshalJSON(data []byte) error {
	var value string

	err := json.Unmarshal(data, &value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal ip type: %w", err)
	}

	switch IPType(value) {
	case IPTypeMullvad, IPTypeUnknown:
		*t = IPType(value)
	default:
		*t = IPTypeOther
	}

	return nil
}

// CheckResult is the response of the unauthenticated IP check. The requesting
// address is an implicit parameter.
type CheckResult struct {
	// IsSafe is true when the request did not come from an unknown IP range.
	IsSafe bool   `json:"is_safe" yaml:"is_safe"`
	IP     string `json:"ip"      yaml:"ip"`
	IPType IPType `json:"ip_type" yaml:"ip_type"`
}
